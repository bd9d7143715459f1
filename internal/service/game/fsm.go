package game

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// GameMachine 是单个房间的状态机，负责串行消费该房间的全部事件
// 同一房间的并发请求在 reqCh 上排队，跨房间互不阻塞
type GameMachine struct {
	ctx     *RoomContext
	handler StageHandler
	// 所有玩家请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，用于通知状态机退出事件循环
	doneCh chan struct{}

	createdAt   time.Time
	playerCount atomic.Int64
}

func NewGameMachine(roomID string, maxPlayers int, doneCh chan struct{}) *GameMachine {
	gm := &GameMachine{
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	gm.ctx = &RoomContext{
		RoomID:      roomID,
		Phase:       PHASE_LOBBY,
		MaxPlayers:  maxPlayers,
		Players:     make(map[string]*Player),
		JoinOrder:   make([]string, 0, maxPlayers),
		Selections:  NewSelectionAggregator(),
		Barrier:     NewPhaseBarrier(),
		TmoCh:       make(chan RequestWrapper, 64),
		playerCount: &gm.playerCount,
	}

	gm.handler = newLobbyStageHandler()
	gm.handler.SetOnSwitch(gm.onSwitch)

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) PlayerCount() int64 {
	return gm.playerCount.Load()
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}

func (gm *GameMachine) onSwitch(nextPhase string) {
	gm.ctx.Phase = nextPhase
}

func (gm *GameMachine) Start() {
	defer func() {
		gm.ctx.CancelDelay()

		zap.L().Info(
			"房间状态机已退出",
			zap.String("room_id", gm.ctx.RoomID),
		)
	}()

	gm.handler.OnEnter(gm.ctx)
	gm.settle()

	for {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到客户端请求",
				zap.String("room_id", gm.ctx.RoomID),
				zap.String("request_type", req.ReqType),
			)
		case req = <-gm.ctx.TmoCh:
			zap.L().Debug(
				"接收到定时事件",
				zap.String("room_id", gm.ctx.RoomID),
			)
		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束房间状态机",
				zap.String("room_id", gm.ctx.RoomID),
			)
			return
		}

		if req.Done != nil {
			zap.L().Info(
				"房间收到关闭指令",
				zap.String("room_id", gm.ctx.RoomID),
			)
			return
		}

		if err := gm.handler.OnHandle(gm.ctx, req); err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("phase", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)

			gm.reportError(req, err)
		}

		gm.settle()
	}
}

// settle 在阶段发生变化后切换处理器并执行 OnEnter，
// OnEnter 本身也可能立即触发下一次切换（例如无人行动的夜晚子阶段）
func (gm *GameMachine) settle() {
	for gm.ctx.Phase != gm.handler.Stage() {
		gm.switchStage()
		gm.handler.OnEnter(gm.ctx)
	}
}

func (gm *GameMachine) switchStage() {
	gm.handler.OnExit(gm.ctx)

	var newHandler StageHandler

	switch gm.ctx.Phase {
	case PHASE_LOBBY:
		newHandler = newLobbyStageHandler()
	case PHASE_INTRO:
		newHandler = newIntroStageHandler()
	case PHASE_NIGHT_KILL, PHASE_NIGHT_HEAL, PHASE_NIGHT_CHECK:
		newHandler = newNightStageHandler(gm.ctx.Phase)
	case PHASE_DISCUSSION:
		newHandler = newDiscussionStageHandler()
	case PHASE_VOTE:
		newHandler = newVoteStageHandler()
	case PHASE_RESOLUTION:
		newHandler = newResolutionStageHandler()
	case PHASE_GAME_OVER:
		newHandler = newGameOverStageHandler()
	default:
		zap.L().Error(
			"未知的游戏阶段",
			zap.String("phase", gm.ctx.Phase),
		)
		return
	}

	newHandler.SetOnSwitch(gm.onSwitch)

	gm.handler = newHandler
}

// reportError 把可恢复错误只回报给发起请求的玩家
func (gm *GameMachine) reportError(req RequestWrapper, err error) {
	resp := WrapErrResponse(err.Error())

	if req.PlayerID != "" {
		if _, ok := gm.ctx.Players[req.PlayerID]; ok {
			gm.ctx.UnicastResp(req.PlayerID, resp)
			return
		}
	}

	// 创建与加入请求失败时玩家尚未注册，直接回给连接的响应通道
	if creq := TryUnwrapCreateRoomRequest(req); creq != nil && creq.RespCh != nil {
		trySendResp(creq.RespCh, resp)
		return
	}

	if jreq := TryUnwrapJoinRoomRequest(req); jreq != nil && jreq.RespCh != nil {
		trySendResp(jreq.RespCh, resp)
	}
}
