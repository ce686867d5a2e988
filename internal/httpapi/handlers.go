package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/hub"
	"github.com/mkells/codenames-backend/internal/web"
)

// GamePage serves the player or spymaster view. Referencing a game id
// here is what creates the game: the hub generates a board on first
// access, so sharing a fresh URL is all it takes to start playing.
func GamePage(h *hub.Hub, pages *web.Renderer, role web.Role, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		reply := make(chan hub.EnsureReply, 1)
		h.Inbox() <- hub.EnsureSession{ID: gameID, Reply: reply}
		if res := <-reply; res.Err != nil {
			log.Error("failed to create game", zap.String("game", gameID), zap.Error(res.Err))
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.RenderGame(w, role, gameID); err != nil {
			log.Error("render failed", zap.String("game", gameID), zap.Error(err))
		}
	}
}

// ResetGame regenerates the game out-of-band; connected clients get a
// game_reset broadcast telling them to re-request the full state.
func ResetGame(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		reply := make(chan hub.EnsureReply, 1)
		h.Inbox() <- hub.ResetSession{ID: gameID, Reply: reply}
		if res := <-reply; res.Err != nil {
			log.Error("failed to reset game", zap.String("game", gameID), zap.Error(res.Err))
			http.Error(w, "failed to reset game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}{Status: "success", Message: "Game reset"})
	}
}

func Index(pages *web.Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pages.RenderIndex(w); err != nil {
			log.Error("render failed", zap.Error(err))
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
