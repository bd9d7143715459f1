package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型，与客户端事件名保持一致
const (
	REQ_CREATE_ROOM     = "createRoom"
	REQ_JOIN_ROOM       = "joinRoom"
	REQ_LEAVE_ROOM      = "leaveRoom"
	REQ_CHAT            = "chat"
	REQ_READY           = "ready"
	REQ_START_GAME      = "startGame"
	REQ_SELECT_TARGET   = "selectTarget"
	REQ_ACK_PHASE       = "acknowledgePhase"
	REQ_DELAY_BROADCAST = "scheduleDelayedBroadcast"

	// 服务端内部事件，不会由客户端发送
	REQ_DISCONNECT     = "disconnect"
	REQ_DELAY_FINISHED = "delayFinished"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`

	// 由传输层注入的请求者身份
	PlayerID string `json:"-"`
	// 服务端内部构造的请求直接携带原生数据，跳过 JSON 解析
	NativeData any `json:"-"`
	// 关闭信号
	Done *struct{} `json:"-"`
}

func unwrapAs[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	if wrapper.NativeData != nil {
		if req, ok := wrapper.NativeData.(*T); ok {
			return req
		}

		zap.L().Error(
			"内部请求数据类型不匹配",
			zap.String("request_type", reqType),
		)

		return nil
	}

	var req T

	// ready、acknowledgePhase 等事件没有负载，data 允许缺省
	if len(wrapper.Data) == 0 {
		return &req
	}

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"解析请求数据失败",
			zap.String("request_type", reqType),
			zap.Error(err),
		)

		return nil
	}

	return &req
}

func TryUnwrapCreateRoomRequest(wrapper RequestWrapper) *CreateRoomRequest {
	return unwrapAs[CreateRoomRequest](wrapper, REQ_CREATE_ROOM)
}

func TryUnwrapJoinRoomRequest(wrapper RequestWrapper) *JoinRoomRequest {
	return unwrapAs[JoinRoomRequest](wrapper, REQ_JOIN_ROOM)
}

func TryUnwrapLeaveRoomRequest(wrapper RequestWrapper) *LeaveRoomRequest {
	return unwrapAs[LeaveRoomRequest](wrapper, REQ_LEAVE_ROOM)
}

func TryUnwrapChatRequest(wrapper RequestWrapper) *ChatRequest {
	return unwrapAs[ChatRequest](wrapper, REQ_CHAT)
}

func TryUnwrapReadyRequest(wrapper RequestWrapper) *ReadyRequest {
	return unwrapAs[ReadyRequest](wrapper, REQ_READY)
}

func TryUnwrapStartGameRequest(wrapper RequestWrapper) *StartGameRequest {
	return unwrapAs[StartGameRequest](wrapper, REQ_START_GAME)
}

func TryUnwrapSelectTargetRequest(wrapper RequestWrapper) *SelectTargetRequest {
	return unwrapAs[SelectTargetRequest](wrapper, REQ_SELECT_TARGET)
}

func TryUnwrapAckPhaseRequest(wrapper RequestWrapper) *AckPhaseRequest {
	return unwrapAs[AckPhaseRequest](wrapper, REQ_ACK_PHASE)
}

func TryUnwrapDelayBroadcastRequest(wrapper RequestWrapper) *DelayBroadcastRequest {
	return unwrapAs[DelayBroadcastRequest](wrapper, REQ_DELAY_BROADCAST)
}

func TryUnwrapDisconnectRequest(wrapper RequestWrapper) *DisconnectRequest {
	return unwrapAs[DisconnectRequest](wrapper, REQ_DISCONNECT)
}

func TryUnwrapDelayFinishedRequest(wrapper RequestWrapper) *DelayFinishedRequest {
	return unwrapAs[DelayFinishedRequest](wrapper, REQ_DELAY_FINISHED)
}

// 响应类型
const (
	RESP_ERROR = "Error"

	RESP_CREATE_ROOM_SUCCESS = "createRoomSuccess"
	RESP_JOIN_ROOM_SUCCESS   = "joinRoomSuccess"
	RESP_PLAYER_LIST         = "playerList"
	RESP_PLAYER_LEAVE        = "playerLeave"
	RESP_GET_MESSAGE         = "getMessage"
	RESP_START_GAME_SUCCESS  = "startGameSuccess"
	RESP_GAME_STATE          = "gameState"
	RESP_PHASE_READY         = "phaseReady"
	RESP_SELECT_SUCCESS      = "selectPlayerSuccess"
	RESP_CITIZEN_DIE         = "citizenDie"
	RESP_CITIZEN_HEAL        = "citizenHeal"
	RESP_HEAL_SUCCESS        = "healSuccess"
	RESP_POLICE_RESULT       = "policeResult"
	RESP_VOTE_KILL           = "voteKill"
	RESP_VOTE_SAFE           = "voteSafe"
	RESP_GAME_RESULT         = "gameResult"
	RESP_DELAY_FINISH        = "delayFinish"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
