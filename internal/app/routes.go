package app

import (
	"github.com/vancomm/minesweeper-web/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.registry, a.tokens, a.cookies, a.ws, a.config.Game,
	)

	a.router.HandleFunc("GET /v1/status", game.Status)
	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("GET /v1/game/{id}", game.Fetch)
	a.router.HandleFunc("DELETE /v1/game/{id}", game.Delete)
	a.router.HandleFunc("POST /v1/game/{id}/reveal", game.Reveal)
	a.router.HandleFunc("POST /v1/game/{id}/flag", game.Flag)
	a.router.HandleFunc("POST /v1/game/{id}/restart", game.Restart)
	a.router.HandleFunc("GET /v1/game/{id}/connect", game.ConnectWS)
}
