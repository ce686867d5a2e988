package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mkells/codenames-backend/internal/hub"
	"github.com/mkells/codenames-backend/internal/web"
	"github.com/mkells/codenames-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, pages *web.Renderer, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/", Index(pages, log))
	r.Get("/player/{gameID}", GamePage(h, pages, web.RolePlayer, log))
	r.Get("/spymaster/{gameID}", GamePage(h, pages, web.RoleSpymaster, log))
	r.Post("/reset/{gameID}", ResetGame(h, log))
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/healthz", Healthz)
	return r
}
