package server

import (
	"encoding/json"
	"net/http"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(webhookPath string, hook Webhook) {
	// Telegram posts updates here
	s.router.Post(webhookPath, hook.WebhookHandler)

	// Current webhook registration, as reported by Telegram
	s.router.Get("/", s.webhookInfoHandler(hook))
	s.router.Head("/", s.webhookInfoHandler(hook))

	s.router.Get("/health", healthHandler)
}

func (s *Server) webhookInfoHandler(hook Webhook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := hook.WebhookInfo()
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to get webhook info")
			writeJSON(w, http.StatusBadGateway, map[string]string{"status": "error", "error": "telegram unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
