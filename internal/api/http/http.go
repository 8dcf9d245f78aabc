package http

import (
	"context"
	"fmt"
	"time"

	"machiavelli-be/internal/api/http/websocket"
	"machiavelli-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	api := app.Party("/api/v1")

	api.Post("/game/start", StartGame(appState))
	api.Get("/game", GameStatus(appState))
	api.Get("/game/standings", Standings(appState))

	api.Get("/ws/join", websocket.JoinGame(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	iris.RegisterOnInterrupt(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		zap.L().Info("收到中断信号，关闭服务器")

		appState.GameSvc.Close()
		app.Shutdown(ctx)
	})

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr, iris.WithoutInterruptHandler, iris.WithoutServerError(iris.ErrServerClosed))
}
