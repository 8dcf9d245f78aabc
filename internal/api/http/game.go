package http

import (
	"errors"

	"machiavelli-be/internal/service"
	"machiavelli-be/internal/service/dto"
	"machiavelli-be/internal/state"

	"github.com/kataras/iris/v12"
)

func StartGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.StartGameRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		resp, err := appState.GameSvc.StartGame(req)
		if err != nil {
			status := iris.StatusBadRequest
			if errors.Is(err, service.ErrNotHost) {
				status = iris.StatusForbidden
			}

			ctx.StatusCode(status)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(resp)
	}
}

func GameStatus(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.GameSvc.Status())
	}
}

func Standings(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		limit := ctx.URLParamIntDefault("limit", 10)

		results, err := appState.GameSvc.Standings(ctx.Request().Context(), limit)
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(dto.StandingsResponse{Results: results})
	}
}
