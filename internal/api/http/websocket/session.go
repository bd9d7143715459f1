package websocket

import (
	"encoding/json"
	"time"

	"mafia-night-be/internal/service/game"
	"mafia-night-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// EnterRoom 处理一条玩家连接的完整生命周期：
// 首个请求必须是 createRoom 或 joinRoom，之后的请求全部
// 转发给对应房间的状态机，连接断开时通知状态机清理玩家
func EnterRoom(appState *state.AppState) iris.Handler {
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

		respCh := make(chan game.ResponseWrapper, 64)

		// 读取首个请求，必须携带房间信息
		_, msg, err := conn.ReadMessage()
		if err != nil {
			zap.L().Error(
				"读取首个请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Error(
				"解析首个请求失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			return
		}

		reqCh, err := enterByFirstRequest(appState, wrapper, respCh)
		if err != nil {
			zap.L().Warn(
				"进入房间失败",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)

			conn.WriteJSON(game.WrapErrResponse(err.Error()))
			return
		}

		// 等待状态机的确认响应，从中取得玩家 ID
		playerID, ok := awaitEnterAck(conn, respCh)
		if !ok {
			zap.L().Error("未能获取玩家ID", zap.String("client_ip", clientIP))
			return
		}

		zap.L().Info(
			"玩家成功进入房间",
			zap.String("client_ip", clientIP),
			zap.String("player_id", playerID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go writeLoop(conn, clientIP, respCh, writeDoneCh)

		// 读取循环（主协程）
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

				respCh <- game.WrapErrResponse("无效的请求格式")

				continue
			}

			// 请求者身份由服务端注入，不信任客户端自报
			wrapper.PlayerID = playerID

			select {
			case reqCh <- wrapper:
			default:
				zap.L().Error(
					"发送请求到房间状态机失败：请求通道已满",
					zap.String("client_ip", clientIP),
				)

				respCh <- game.WrapErrResponse("房间繁忙，请稍后再试")
			}
		}

		// 读循环退出，表示客户端断开连接，通知状态机清理玩家
		zap.L().Info(
			"客户端连接断开，发送断线请求",
			zap.String("client_ip", clientIP),
			zap.String("player_id", playerID),
		)

		disconnectReq := game.RequestWrapper{
			ReqType:    game.REQ_DISCONNECT,
			PlayerID:   playerID,
			NativeData: &game.DisconnectRequest{},
		}

		select {
		case reqCh <- disconnectReq:
		case <-time.After(3 * time.Second):
			zap.L().Warn(
				"发送断线请求超时",
				zap.String("player_id", playerID),
			)
		}
	}
}

// enterByFirstRequest 根据首个请求创建或加入房间
func enterByFirstRequest(
	appState *state.AppState,
	wrapper game.RequestWrapper,
	respCh chan game.ResponseWrapper,
) (chan game.RequestWrapper, error) {
	if req := game.TryUnwrapCreateRoomRequest(wrapper); req != nil {
		return appState.RoomSvc.CreateRoom(req.RoomID, req.Name, respCh)
	}

	if req := game.TryUnwrapJoinRoomRequest(wrapper); req != nil {
		return appState.RoomSvc.JoinRoom(req.RoomID, req.Name, respCh)
	}

	return nil, game.ErrRoomNotFound
}

// awaitEnterAck 等待创建或加入的确认帧，提取玩家 ID 后
// 把帧放回通道，交给写协程正常下发
func awaitEnterAck(conn *websocket.Conn, respCh chan game.ResponseWrapper) (string, bool) {
	select {
	case resp := <-respCh:
		switch data := resp.Data.(type) {
		case game.CreateRoomResponse:
			trySendBack(respCh, resp)
			return data.PlayerID, true

		case game.JoinRoomResponse:
			trySendBack(respCh, resp)
			return data.PlayerID, true

		default:
			// 校验失败的错误帧直接发给客户端
			conn.WriteJSON(resp)
			return "", false
		}

	case <-time.After(3 * time.Second):
		return "", false
	}
}

func trySendBack(respCh chan game.ResponseWrapper, resp game.ResponseWrapper) {
	select {
	case respCh <- resp:
	default:
		zap.L().Warn("无法回放进入房间的确认响应")
	}
}

// writeLoop 负责向客户端发送响应与心跳
func writeLoop(
	conn *websocket.Conn,
	clientIP string,
	respCh chan game.ResponseWrapper,
	writeDoneCh chan struct{},
) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-writeDoneCh:
			zap.L().Info(
				"WebSocket写入协程退出",
				zap.String("client_ip", clientIP),
			)
			return

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

			conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

		case resp, ok := <-respCh:
			// 通道关闭说明状态机已经移除该玩家
			if !ok {
				zap.L().Info(
					"响应通道已关闭，退出写协程",
					zap.String("client_ip", clientIP),
				)
				return
			}

			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}
		}
	}
}
