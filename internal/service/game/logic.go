package game

import (
	"time"

	"go.uber.org/zap"
)

// 一局游戏的阶段流转：
// Lobby → Intro → {NightKill → NightHeal → NightCheck} → Discussion
// → Vote → RoundResolution → (下一个夜晚 | GameOver)
// 夜晚子阶段与投票在所有有选择权的玩家都提交后结算推进，
// Intro 与 Discussion 由 PhaseBarrier 在全员确认动画后放行，
// GameOver 广播结果并自动把房间重置回 Lobby
type StageHandler interface {
	Stage() string

	OnEnter(ctx *RoomContext)
	OnHandle(ctx *RoomContext, req RequestWrapper) error
	OnExit(ctx *RoomContext)

	SetOnSwitch(func(nextPhase string))
}

// ---------------------------------------------------------------------------
// 各阶段共享的请求处理
// ---------------------------------------------------------------------------

// handleSharedRequest 处理与阶段无关的请求：加入、聊天、定时广播
// 返回 true 表示请求已被消费
func handleSharedRequest(ctx *RoomContext, req RequestWrapper) (bool, error) {
	if creq := TryUnwrapCreateRoomRequest(req); creq != nil {
		return true, onPlayerJoin(ctx, creq.Name, creq.RespCh, true)
	}

	if jreq := TryUnwrapJoinRoomRequest(req); jreq != nil {
		return true, onPlayerJoin(ctx, jreq.Name, jreq.RespCh, false)
	}

	if creq := TryUnwrapChatRequest(req); creq != nil {
		return true, onChat(ctx, req.PlayerID, creq)
	}

	if dreq := TryUnwrapDelayBroadcastRequest(req); dreq != nil {
		ctx.ArmDelay(time.Duration(dreq.DelayMs) * time.Millisecond)
		return true, nil
	}

	if dreq := TryUnwrapDelayFinishedRequest(req); dreq != nil {
		ctx.BroadcastResp(WrapResponse(RESP_DELAY_FINISH, ""))
		return true, nil
	}

	return false, nil
}

// handleDeparture 处理离开与断线，返回 true 时调用方需要
// 重新检查本阶段的结算条件（人数集合缩小可能使其立即满足）
func handleDeparture(ctx *RoomContext, req RequestWrapper) bool {
	if lreq := TryUnwrapLeaveRoomRequest(req); lreq != nil {
		onPlayerGone(ctx, req.PlayerID)
		return true
	}

	if dreq := TryUnwrapDisconnectRequest(req); dreq != nil {
		onPlayerGone(ctx, req.PlayerID)
		return true
	}

	return false
}

func onPlayerJoin(ctx *RoomContext, name string, respCh chan ResponseWrapper, asCreator bool) error {
	player := &Player{
		ID:     ShortID(),
		Name:   name,
		Role:   ROLE_UNSET,
		RespCh: respCh,
	}

	if err := ctx.AddPlayer(player); err != nil {
		return err
	}

	players := ctx.PublicPlayers()

	if asCreator {
		ctx.UnicastResp(player.ID, WrapResponse(
			RESP_CREATE_ROOM_SUCCESS,
			CreateRoomResponse{
				RoomID:   ctx.RoomID,
				PlayerID: player.ID,
				Creator:  player.Public(),
				Players:  players,
			},
		))
	} else {
		ctx.UnicastResp(player.ID, WrapResponse(
			RESP_JOIN_ROOM_SUCCESS,
			JoinRoomResponse{
				RoomID:   ctx.RoomID,
				PlayerID: player.ID,
				Joiner:   player.Public(),
				Players:  players,
			},
		))
	}

	ctx.BroadcastResp(WrapResponse(RESP_PLAYER_LIST, players))

	zap.L().Info(
		"玩家加入房间",
		zap.String("room_id", ctx.RoomID),
		zap.String("player_id", player.ID),
		zap.String("player_name", name),
	)

	return nil
}

// onPlayerGone 移除玩家并广播离开通知
// 待触发的定时广播一并取消，离开往往意味着开场动画已经失效
func onPlayerGone(ctx *RoomContext, playerID string) {
	player := ctx.RemovePlayer(playerID)
	if player == nil {
		zap.L().Warn(
			"玩家不存在，无法移除",
			zap.String("player_id", playerID),
		)
		return
	}

	ctx.CancelDelay()

	ctx.BroadcastResp(WrapResponse(
		RESP_PLAYER_LEAVE,
		PlayerLeaveResponse{Name: player.Name},
	))

	ctx.BroadcastResp(WrapResponse(RESP_PLAYER_LIST, ctx.PublicPlayers()))

	zap.L().Info(
		"玩家离开房间",
		zap.String("room_id", ctx.RoomID),
		zap.String("player_id", playerID),
		zap.String("player_name", player.Name),
	)
}

func onChat(ctx *RoomContext, playerID string, req *ChatRequest) error {
	sender, ok := ctx.Players[playerID]
	if !ok {
		return ErrUnknownTarget
	}

	resp := WrapResponse(RESP_GET_MESSAGE, ChatResponse{
		Name:    sender.Name,
		Color:   sender.Color,
		Message: req.Message,
	})

	// 夜晚阶段黑手党的发言只在同伙之间可见
	if isNightPhase(ctx.Phase) && sender.Role == ROLE_MAFIA {
		ctx.SendToRole(ROLE_MAFIA, resp)
		return nil
	}

	ctx.BroadcastResp(resp)

	return nil
}

func isNightPhase(phase string) bool {
	return phase == PHASE_NIGHT_KILL ||
		phase == PHASE_NIGHT_HEAL ||
		phase == PHASE_NIGHT_CHECK
}

func clearSelections(ctx *RoomContext) {
	for _, p := range ctx.Players {
		p.CurrentSelection = ""
	}
}

func clearPhaseAcks(ctx *RoomContext) {
	for _, p := range ctx.Players {
		p.PhaseAck = false
	}
}

// ---------------------------------------------------------------------------
// 大厅阶段
// ---------------------------------------------------------------------------

type lobbyStageHandler struct {
	onSwitch func(string)
}

func newLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return PHASE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *RoomContext) {
	if len(ctx.Players) > 0 {
		ctx.BroadcastResp(WrapResponse(RESP_PLAYER_LIST, ctx.PublicPlayers()))
	}
}

func (lsh *lobbyStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		return nil
	}

	if rreq := TryUnwrapReadyRequest(req); rreq != nil {
		player, ok := ctx.Players[req.PlayerID]
		if !ok {
			return ErrUnknownTarget
		}

		player.Ready = !player.Ready
		ctx.BroadcastResp(WrapResponse(RESP_PLAYER_LIST, ctx.PublicPlayers()))

		return nil
	}

	if sreq := TryUnwrapStartGameRequest(req); sreq != nil {
		return lsh.startGame(ctx, sreq)
	}

	return ErrInvalidPhase
}

func (lsh *lobbyStageHandler) startGame(ctx *RoomContext, req *StartGameRequest) error {
	for role := range req.RoleCounts {
		switch role {
		case ROLE_MAFIA, ROLE_CITIZEN, ROLE_POLICE, ROLE_DOCTOR, ROLE_POLITICIAN:
		default:
			return ErrConfigMismatch
		}
	}

	assigned, err := AssignRoles(ctx.JoinOrder, req.RoleCounts)
	if err != nil {
		return err
	}

	for id, role := range assigned {
		p := ctx.Players[id]
		p.Role = role
		p.Alive = true
		p.Ready = false
		p.HealedThisRound = false
		p.CurrentSelection = ""
		p.PhaseAck = false
	}

	ctx.Round = 1

	// 每人只能看到自己的身份，黑手党额外得到同伙名单
	mafiaPeers := RolePeers(ctx.Players, ROLE_MAFIA)

	for id, p := range ctx.Players {
		resp := StartGameResponse{Role: p.Role}
		if p.Role == ROLE_MAFIA {
			resp.Peers = mafiaPeers
		}

		ctx.UnicastResp(id, WrapResponse(RESP_START_GAME_SUCCESS, resp))
	}

	zap.S().Infof("房间 %s 游戏开始，玩家数 %d", ctx.RoomID, len(ctx.Players))

	lsh.onSwitch(PHASE_INTRO)

	return nil
}

func (lsh *lobbyStageHandler) OnExit(ctx *RoomContext) {
}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 开场动画阶段，屏障同步
// ---------------------------------------------------------------------------

type introStageHandler struct {
	onSwitch func(string)
}

func newIntroStageHandler() *introStageHandler {
	return &introStageHandler{}
}

func (ish *introStageHandler) Stage() string {
	return PHASE_INTRO
}

func (ish *introStageHandler) OnEnter(ctx *RoomContext) {
	ctx.BroadcastGameState()
}

func (ish *introStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		ish.checkBarrier(ctx)
		return nil
	}

	if areq := TryUnwrapAckPhaseRequest(req); areq != nil {
		return onBarrierArrive(ctx, req.PlayerID, ish.checkBarrier)
	}

	return ErrInvalidPhase
}

func (ish *introStageHandler) checkBarrier(ctx *RoomContext) {
	releaseBarrier(ctx, PHASE_NIGHT_KILL, ish.onSwitch)
}

func (ish *introStageHandler) OnExit(ctx *RoomContext) {
}

func (ish *introStageHandler) SetOnSwitch(onSwitch func(string)) {
	ish.onSwitch = onSwitch
}

// onBarrierArrive 记录一次阶段动画确认，重复确认幂等
func onBarrierArrive(ctx *RoomContext, playerID string, check func(*RoomContext)) error {
	player, ok := ctx.Players[playerID]
	if !ok {
		return ErrUnknownTarget
	}

	player.PhaseAck = true
	ctx.Barrier.Arrive(playerID)

	check(ctx)

	return nil
}

// releaseBarrier 在全员确认后重置屏障并恰好广播一次放行通知
func releaseBarrier(ctx *RoomContext, nextPhase string, onSwitch func(string)) {
	if !ctx.Barrier.AllArrived(ctx.MemberIDs()) {
		return
	}

	ctx.Barrier.Reset()
	clearPhaseAcks(ctx)

	ctx.BroadcastResp(WrapResponse(
		RESP_PHASE_READY,
		PhaseReadyResponse{Phase: ctx.Phase},
	))

	onSwitch(nextPhase)
}

// ---------------------------------------------------------------------------
// 夜晚子阶段：击杀、治疗、查验共用同一套选择聚合逻辑
// ---------------------------------------------------------------------------

type nightStageHandler struct {
	phase    string
	onSwitch func(string)
}

func newNightStageHandler(phase string) *nightStageHandler {
	return &nightStageHandler{phase: phase}
}

func (nsh *nightStageHandler) Stage() string {
	return nsh.phase
}

func (nsh *nightStageHandler) OnEnter(ctx *RoomContext) {
	ctx.BroadcastGameState()

	// 该阶段没有任何存活的行动者时立即跳过（例如医生未配置或已死亡）
	nsh.maybeResolve(ctx)
}

func (nsh *nightStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		nsh.maybeResolve(ctx)
		return nil
	}

	if sreq := TryUnwrapSelectTargetRequest(req); sreq != nil {
		if err := recordSelection(ctx, req.PlayerID, sreq, nsh.phase); err != nil {
			return err
		}

		nsh.maybeResolve(ctx)

		return nil
	}

	return ErrInvalidPhase
}

// maybeResolve 在所有有选择权的玩家都已提交后结算本子阶段
func (nsh *nightStageHandler) maybeResolve(ctx *RoomContext) {
	eligible := ctx.EligibleSelectorIDs(nsh.phase)
	if !ctx.Selections.QuorumReached(eligible) {
		return
	}

	target, _, total := ctx.Selections.Resolve()
	clearSelections(ctx)

	switch nsh.phase {
	case PHASE_NIGHT_KILL:
		if total > 0 {
			ctx.PendingKill = target
		}

		nsh.onSwitch(PHASE_NIGHT_HEAL)

	case PHASE_NIGHT_HEAL:
		if total > 0 {
			if healed := ctx.PlayerByName(target); healed != nil {
				healed.HealedThisRound = true
			}

			ctx.BroadcastResp(WrapResponse(RESP_HEAL_SUCCESS, ""))
		}

		nsh.onSwitch(PHASE_NIGHT_CHECK)

	case PHASE_NIGHT_CHECK:
		if total > 0 {
			if checked := ctx.PlayerByName(target); checked != nil {
				// 查验结果只发给存活的警察
				ctx.SendToRole(ROLE_POLICE, WrapResponse(
					RESP_POLICE_RESULT,
					PoliceResultResponse{
						Target: checked.Name,
						Role:   checked.Role,
					},
				))
			}
		}

		nsh.finishNight(ctx)
	}
}

// finishNight 在夜晚结束时应用待结算的击杀：
// 目标在本回合被治疗则击杀被抵消，否则死亡并触发胜负判定
func (nsh *nightStageHandler) finishNight(ctx *RoomContext) {
	outcome := OUTCOME_ONGOING

	if ctx.PendingKill != "" {
		victim := ctx.PlayerByName(ctx.PendingKill)
		ctx.PendingKill = ""

		if victim != nil && victim.Alive {
			if victim.HealedThisRound {
				ctx.BroadcastResp(WrapResponse(RESP_CITIZEN_HEAL, ""))
			} else {
				victim.Alive = false

				ctx.BroadcastResp(WrapResponse(
					RESP_CITIZEN_DIE,
					KillNotification{Name: victim.Name, Color: victim.Color},
				))

				outcome = EvaluateKill(ctx.Players, victim, false)
			}
		}
	} else {
		// 没有击杀也要判定，行动者可能在本阶段全部离开
		outcome = EvaluateOutcome(ctx.Players)
	}

	for _, p := range ctx.Players {
		p.HealedThisRound = false
	}

	if outcome == OUTCOME_ONGOING {
		nsh.onSwitch(PHASE_DISCUSSION)
		return
	}

	ctx.Outcome = outcome
	nsh.onSwitch(PHASE_GAME_OVER)
}

func (nsh *nightStageHandler) OnExit(ctx *RoomContext) {
}

func (nsh *nightStageHandler) SetOnSwitch(onSwitch func(string)) {
	nsh.onSwitch = onSwitch
}

// recordSelection 校验并记录一次目标选择，同时向同身份玩家同步进度
func recordSelection(ctx *RoomContext, playerID string, req *SelectTargetRequest, phase string) error {
	if req.Phase != phase {
		return ErrInvalidPhase
	}

	selector, ok := ctx.Players[playerID]
	if !ok {
		return ErrIneligibleSelector
	}

	target := ctx.PlayerByName(req.TargetName)
	if target == nil {
		return ErrUnknownTarget
	}

	// 查验可以指向任何房间成员，其余行动只能指向存活玩家
	if phase != PHASE_NIGHT_CHECK && !target.Alive {
		return ErrUnknownTarget
	}

	eligibleSet := ctx.EligibleSelectorSet(phase)

	if err := ctx.Selections.Record(playerID, req.TargetName, eligibleSet); err != nil {
		return err
	}

	selector.CurrentSelection = req.TargetName

	progress := WrapResponse(RESP_SELECT_SUCCESS, SelectProgressResponse{
		Selector:  selector.Name,
		Target:    req.TargetName,
		Submitted: ctx.Selections.Count(),
		Expected:  len(eligibleSet),
	})

	// 白天投票对全房间公开，夜晚行动只同步给同身份玩家
	if phase == PHASE_VOTE {
		ctx.BroadcastResp(progress)
	} else {
		ctx.SendToRole(selector.Role, progress)
	}

	return nil
}

// ---------------------------------------------------------------------------
// 白天讨论阶段，屏障同步
// ---------------------------------------------------------------------------

type discussionStageHandler struct {
	onSwitch func(string)
}

func newDiscussionStageHandler() *discussionStageHandler {
	return &discussionStageHandler{}
}

func (dsh *discussionStageHandler) Stage() string {
	return PHASE_DISCUSSION
}

func (dsh *discussionStageHandler) OnEnter(ctx *RoomContext) {
	ctx.BroadcastGameState()
}

func (dsh *discussionStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		dsh.checkBarrier(ctx)
		return nil
	}

	if areq := TryUnwrapAckPhaseRequest(req); areq != nil {
		return onBarrierArrive(ctx, req.PlayerID, dsh.checkBarrier)
	}

	return ErrInvalidPhase
}

func (dsh *discussionStageHandler) checkBarrier(ctx *RoomContext) {
	releaseBarrier(ctx, PHASE_VOTE, dsh.onSwitch)
}

func (dsh *discussionStageHandler) OnExit(ctx *RoomContext) {
}

func (dsh *discussionStageHandler) SetOnSwitch(onSwitch func(string)) {
	dsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 白天投票阶段
// ---------------------------------------------------------------------------

type voteStageHandler struct {
	onSwitch func(string)
}

func newVoteStageHandler() *voteStageHandler {
	return &voteStageHandler{}
}

func (vsh *voteStageHandler) Stage() string {
	return PHASE_VOTE
}

func (vsh *voteStageHandler) OnEnter(ctx *RoomContext) {
	ctx.BroadcastGameState()

	vsh.maybeResolve(ctx)
}

func (vsh *voteStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		vsh.maybeResolve(ctx)
		return nil
	}

	if sreq := TryUnwrapSelectTargetRequest(req); sreq != nil {
		if err := recordSelection(ctx, req.PlayerID, sreq, PHASE_VOTE); err != nil {
			return err
		}

		vsh.maybeResolve(ctx)

		return nil
	}

	return ErrInvalidPhase
}

// maybeResolve 在所有存活玩家都投票后结算：
// 得票最高者只有获得严格过半数的票才会被处决
func (vsh *voteStageHandler) maybeResolve(ctx *RoomContext) {
	eligible := ctx.EligibleSelectorIDs(PHASE_VOTE)
	if !ctx.Selections.QuorumReached(eligible) {
		return
	}

	target, votes, total := ctx.Selections.Resolve()
	clearSelections(ctx)

	if total > 0 && votes*2 > total {
		ctx.PendingLynch = target
	} else {
		ctx.PendingLynch = ""
	}

	vsh.onSwitch(PHASE_RESOLUTION)
}

func (vsh *voteStageHandler) OnExit(ctx *RoomContext) {
}

func (vsh *voteStageHandler) SetOnSwitch(onSwitch func(string)) {
	vsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 回合结算阶段
// ---------------------------------------------------------------------------

type resolutionStageHandler struct {
	onSwitch func(string)
}

func newResolutionStageHandler() *resolutionStageHandler {
	return &resolutionStageHandler{}
}

func (rsh *resolutionStageHandler) Stage() string {
	return PHASE_RESOLUTION
}

func (rsh *resolutionStageHandler) OnEnter(ctx *RoomContext) {
	outcome := OUTCOME_ONGOING

	if ctx.PendingLynch != "" {
		victim := ctx.PlayerByName(ctx.PendingLynch)
		ctx.PendingLynch = ""

		if victim != nil && victim.Alive {
			victim.Alive = false

			ctx.BroadcastResp(WrapResponse(
				RESP_VOTE_KILL,
				KillNotification{Name: victim.Name, Color: victim.Color},
			))

			// 政治家被公投处决时单独获胜
			outcome = EvaluateKill(ctx.Players, victim, true)
		}
	} else {
		ctx.BroadcastResp(WrapResponse(RESP_VOTE_SAFE, ""))
		outcome = EvaluateOutcome(ctx.Players)
	}

	if outcome == OUTCOME_ONGOING {
		ctx.Round++
		rsh.onSwitch(PHASE_NIGHT_KILL)
		return
	}

	ctx.Outcome = outcome
	rsh.onSwitch(PHASE_GAME_OVER)
}

func (rsh *resolutionStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		return nil
	}

	return ErrInvalidPhase
}

func (rsh *resolutionStageHandler) OnExit(ctx *RoomContext) {
}

func (rsh *resolutionStageHandler) SetOnSwitch(onSwitch func(string)) {
	rsh.onSwitch = onSwitch
}

// ---------------------------------------------------------------------------
// 游戏结束阶段：广播结局与完整身份揭示，随后自动回到大厅
// ---------------------------------------------------------------------------

type gameOverStageHandler struct {
	onSwitch func(string)
}

func newGameOverStageHandler() *gameOverStageHandler {
	return &gameOverStageHandler{}
}

func (gsh *gameOverStageHandler) Stage() string {
	return PHASE_GAME_OVER
}

func (gsh *gameOverStageHandler) OnEnter(ctx *RoomContext) {
	reveal := make(map[string]string, len(ctx.Players))
	for _, p := range ctx.Players {
		if p.Role != ROLE_UNSET {
			reveal[p.Name] = p.Role
		}
	}

	ctx.BroadcastResp(WrapResponse(
		RESP_GAME_RESULT,
		GameResultResponse{
			Outcome: ctx.Outcome,
			Roles:   reveal,
		},
	))

	zap.S().Infof("房间 %s 游戏结束：%s", ctx.RoomID, ctx.Outcome)

	ctx.ResetToLobby()

	gsh.onSwitch(PHASE_LOBBY)
}

func (gsh *gameOverStageHandler) OnHandle(ctx *RoomContext, req RequestWrapper) error {
	if handled, err := handleSharedRequest(ctx, req); handled {
		return err
	}

	if handleDeparture(ctx, req) {
		return nil
	}

	return ErrInvalidPhase
}

func (gsh *gameOverStageHandler) OnExit(ctx *RoomContext) {
}

func (gsh *gameOverStageHandler) SetOnSwitch(onSwitch func(string)) {
	gsh.onSwitch = onSwitch
}
