package handler

import "net/http"

// @Summary Healthcheck
// @Tags health
// @Produce json
// @Success 200 {object} envelope
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "ok", nil)
}
