package controllers

import (
	"net/http"

	"hrvd/internal/fitbit"
	"hrvd/internal/models"
	"hrvd/internal/providers"
	"hrvd/internal/services"
	"hrvd/internal/structures"
)

// AuthController handles the OAuth2 authorization-code flow: the login
// redirect to the provider and the callback that exchanges the code.
type AuthController struct {
	conf    *structures.Config
	logger  providers.Logger
	client  fitbit.ClientInterface
	tokens  *models.TokenStore
	service services.HrvServiceInterface
	metrics providers.MetricsProviderInterface
}

func NewAuthController(
	conf *structures.Config,
	logger providers.Logger,
	client fitbit.ClientInterface,
	tokens *models.TokenStore,
	service services.HrvServiceInterface,
	metrics providers.MetricsProviderInterface,
) *AuthController {
	return &AuthController{
		conf:    conf,
		logger:  logger,
		client:  client,
		tokens:  tokens,
		service: service,
		metrics: metrics,
	}
}

// Login redirects the browser to the provider's authorization page for
// the given user's client identity.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.conf.User(r.PathValue("user"))
	if !ok {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	authURL := ac.client.AuthorizeURL(user)
	ac.logger.Infof(providers.TypeGet, "Redirecting user %s to authorization: %s", user.ID, authURL)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback exchanges the one-time authorization code for tokens,
// persists them and primes the HRV cache for the user. A failed prime
// fetch is logged only: the authentication itself already succeeded.
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.conf.User(r.PathValue("user"))
	if !ok {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	ac.logger.Infof(providers.TypeGet, "Received callback for %s", user.ID)

	rec, err := ac.client.ExchangeCode(r.Context(), user, code)
	if err != nil {
		ac.metrics.IncTokenExchange(user.ID, false)
		ac.logger.Errorf(providers.TypeGet, "Error during authentication for %s: %s", user.ID, err)
		http.Error(w, "Error during authentication.", http.StatusInternalServerError)
		return
	}
	ac.metrics.IncTokenExchange(user.ID, true)

	if err := ac.tokens.Put(user.ID, rec); err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error persisting token for %s: %s", user.ID, err)
		http.Error(w, "Error during authentication.", http.StatusInternalServerError)
		return
	}
	ac.logger.Infof(providers.TypeGet, "Access token for %s stored", user.ID)

	if err := ac.service.Refresh(r.Context(), user.ID); err != nil {
		ac.logger.Errorf(providers.TypeGet, "Error priming HRV cache for %s: %s", user.ID, err)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Authentication successful! You can now access Fitbit data."))
}
