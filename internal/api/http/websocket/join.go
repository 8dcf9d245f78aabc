package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"machiavelli-be/internal/service/game"
	"machiavelli-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func JoinGame(appState *state.AppState) iris.Handler {
	upgrader := newUpgrader(appState.Cfg.AllowedOrigins)

	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := ctx.RemoteAddr()

		// 读取首次请求，获取必要的参数
		_, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Error(
				"读取首次请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Error(
				"解析首次请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			conn.WriteJSON(game.WrapErrResponse("无效的请求格式"))
			return
		}

		req := game.TryUnwrapJoinGameRequest(wrapper)
		if req == nil {
			zap.L().Error(
				"首次请求不是JoinGame类型",
				zap.String("client_ip", clientIP),
				zap.Any("wrapper", wrapper),
			)
			conn.WriteJSON(game.WrapErrResponse("首次请求必须是 JoinGame"))
			return
		}

		seat := newWSSeat()
		defer seat.close()

		joinResp, err := appState.GameSvc.JoinGame(req.JoinerName, seat)
		if err != nil {
			zap.L().Warn(
				"加入对局失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			conn.WriteJSON(game.WrapErrResponse(err.Error()))
			return
		}

		// 加入确认已由 AckJoin 排在通道最前面
		playerID := joinResp.Joiner.ID

		zap.L().Info(
			"玩家成功加入对局",
			zap.String("client_ip", clientIP),
			zap.String("player_id", playerID),
			zap.String("player_name", joinResp.Joiner.Name),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go writeLoop(conn, seat, clientIP, writeDoneCh)

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Error(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				seat.send(game.WrapErrResponse("无效的请求格式"))

				continue
			}

			answer := game.TryUnwrapAnswerRequest(wrapper)
			if answer == nil {
				seat.send(game.WrapErrResponse("不支持的请求类型"))
				continue
			}

			zap.L().Debug(
				"收到玩家回答",
				zap.String("player_id", playerID),
				zap.String("text", answer.Text),
			)

			seat.answer(answer.Text)
		}

		// 读循环退出，表示客户端断开连接
		seat.close()

		err = appState.GameSvc.LeaveLobby(playerID)
		switch {
		case err == nil:
			zap.L().Info("玩家断开连接，已离开大厅", zap.String("player_id", playerID))
		case errors.Is(err, game.ErrGameStarted), errors.Is(err, game.ErrPlayerNotFound):
			zap.L().Info("玩家断开连接，后续回合由兜底动作代替", zap.String("player_id", playerID))
		default:
			zap.L().Warn("玩家离开大厅失败", zap.String("player_id", playerID), zap.Error(err))
		}
	}
}

func writeLoop(conn *websocket.Conn, seat *wsSeat, clientIP string, doneCh <-chan struct{}) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-doneCh:
			zap.L().Info(
				"WebSocket写入协程退出",
				zap.String("client_ip", clientIP),
			)
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

		case resp := <-seat.respCh:
			conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

			zap.L().Debug(
				"发送消息",
				zap.String("client_ip", clientIP),
				zap.String("response_type", resp.RespType),
			)
		}
	}
}
