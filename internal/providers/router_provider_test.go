package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/hrv/{user}", dummyHandler())

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/hrv/{user}", routes[0].Url)
}

func TestRouterProvider_MethodGuard(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/hrv/{user}", dummyHandler())

	w := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hrv/user1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hrv/user1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterProvider_PathValueThroughMux(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/hrv/{user}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.PathValue("user")))
	}))

	mux := http.NewServeMux()
	for _, route := range rp.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hrv/user2", nil))
	assert.Equal(t, "user2", w.Body.String())
}
