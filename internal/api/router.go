package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"bocrates/internal/adapters"
	"bocrates/internal/bot"
)

func NewRouter(webhookPath string, handler *bot.Handler, dedup adapters.UpdateDedup) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Post(webhookPath, webhookHandler(handler, dedup))
	return router
}

// webhookHandler always answers 200: Telegram keeps redelivering an update
// until it gets a 2xx, and a malformed or failing update should be dropped,
// not retried forever.
func webhookHandler(handler *bot.Handler, dedup adapters.UpdateDedup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer writeOK(w)

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logrus.WithError(err).Warn("Discarding undecodable webhook update")
			return
		}

		if dedup.Seen(update.UpdateID) {
			logrus.Infof("Skipping already processed update %d", update.UpdateID)
			return
		}
		dedup.Mark(update.UpdateID)

		handler.HandleUpdate(r.Context(), &update)
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}
