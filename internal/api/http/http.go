package http

import (
	"fmt"

	"mafia-night-be/internal/api/http/websocket"
	"mafia-night-be/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Get("/health", Health(appState))
	api.Get("/rooms/stats", RoomStats(appState))

	api.Get("/ws/play", websocket.EnterRoom(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
