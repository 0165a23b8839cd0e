package controllers

import (
	"net/http"

	"hrvd/internal/providers"
	"hrvd/internal/services"
)

// HrvController serves the cached HRV series. Reads go through the
// response cache first; the orchestrator invalidates the entry whenever
// it overwrites a user's series, so a hit is always the latest payload.
type HrvController struct {
	logger  providers.Logger
	service services.HrvServiceInterface
	cache   providers.CacheProviderInterface
	metrics providers.MetricsProviderInterface
}

func NewHrvController(
	logger providers.Logger,
	service services.HrvServiceInterface,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
) *HrvController {
	return &HrvController{
		logger:  logger,
		service: service,
		cache:   cache,
		metrics: metrics,
	}
}

func (hc *HrvController) Get(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	hc.logger.Debugf(providers.TypeGet, "Received request for HRV data of %s", user)

	cacheKey := "hrv:" + user
	if payload, ok := hc.cache.Get(cacheKey); ok {
		hc.metrics.IncCacheHits()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
		return
	}
	hc.metrics.IncCacheMisses()

	payload, ok := hc.service.GetSeries(user)
	if !ok {
		http.Error(w, "Data not available.", http.StatusNotFound)
		return
	}

	hc.cache.Set(cacheKey, payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
