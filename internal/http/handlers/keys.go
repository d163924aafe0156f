package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"videogen/internal/domain"
)

type keySelectRequest struct {
	APIKey string `json:"api_key"`
}

// KeyStatus reports the current credential cell. The status is advisory: the
// generation call itself re-checks the key.
func (a *App) KeyStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Gate.Status())
}

// KeySelect stores a new API key and optimistically opens the gate.
func (a *App) KeySelect(w http.ResponseWriter, r *http.Request) {
	var req keySelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		a.error(w, http.StatusBadRequest, "validation_error", "api_key is required")
		return
	}

	status, err := a.Gate.Select(r.Context(), req.APIKey)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			a.error(w, http.StatusNotImplemented, "capability_unavailable", "key selection requires a database-backed credential store")
			return
		}
		a.Logger.Error().Err(err).Msg("keys: selection failed")
		a.error(w, http.StatusBadGateway, "selection_failed", "could not complete key selection")
		return
	}
	a.json(w, http.StatusOK, status)
}
