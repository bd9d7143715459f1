package game

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RoomContext 是一个房间的全部可变状态，
// 只会被该房间的事件循环协程读写
type RoomContext struct {
	RoomID  string
	Phase   string
	Round   int
	Outcome string

	MaxPlayers int

	// 玩家记录与加入顺序，顺序决定座位颜色与发牌对应关系
	Players   map[string]*Player
	JoinOrder []string

	Selections *SelectionAggregator
	Barrier    *PhaseBarrier

	// 夜晚击杀的待结算目标，治疗可以在结算前抵消
	PendingKill string
	// 白天投票的待结算目标
	PendingLynch string

	// 超时与定时事件回流到事件循环的通道
	TmoCh chan RequestWrapper

	delayTimer  *time.Timer
	playerCount *atomic.Int64
}

func (rc *RoomContext) PlayerByName(name string) *Player {
	for _, p := range rc.Players {
		if p.Name == name {
			return p
		}
	}

	return nil
}

// AddPlayer 校验后把玩家加入房间，座位颜色按加入顺序分配
func (rc *RoomContext) AddPlayer(player *Player) error {
	if rc.Phase != PHASE_LOBBY {
		return ErrGameAlreadyStarted
	}

	if len(rc.Players) >= rc.MaxPlayers {
		return ErrRoomFull
	}

	if rc.PlayerByName(player.Name) != nil {
		return ErrNameTaken
	}

	player.Alive = true
	player.Color = seatColors[len(rc.JoinOrder)%len(seatColors)]

	rc.Players[player.ID] = player
	rc.JoinOrder = append(rc.JoinOrder, player.ID)
	rc.playerCount.Add(1)

	return nil
}

// RemovePlayer 移除玩家并把它从聚合器与屏障的要求集合中剔除，
// 保证进行中的阶段不会因此卡死
func (rc *RoomContext) RemovePlayer(playerID string) *Player {
	player, exists := rc.Players[playerID]
	if !exists {
		return nil
	}

	delete(rc.Players, playerID)

	for i, id := range rc.JoinOrder {
		if id == playerID {
			rc.JoinOrder = append(rc.JoinOrder[:i], rc.JoinOrder[i+1:]...)
			break
		}
	}

	rc.Selections.RemoveSelector(playerID)
	rc.Barrier.Remove(playerID)
	rc.playerCount.Add(-1)

	// 颜色是按位置分配的，有人离开后重新排
	for i, id := range rc.JoinOrder {
		rc.Players[id].Color = seatColors[i%len(seatColors)]
	}

	// 响应通道不在这里关闭，连接层可能仍会向其写入错误帧，
	// 写协程随连接断开自行退出
	player.RespCh = nil

	return player
}

func (rc *RoomContext) MemberIDs() []string {
	return rc.JoinOrder
}

func (rc *RoomContext) PublicPlayers() []PublicPlayer {
	players := make([]PublicPlayer, 0, len(rc.JoinOrder))
	for _, id := range rc.JoinOrder {
		players = append(players, rc.Players[id].Public())
	}

	return players
}

// EligibleSelectorIDs 计算当前阶段有选择权的玩家，
// 每次调用时重新评估，死亡玩家随时会被移出
func (rc *RoomContext) EligibleSelectorIDs(phase string) []string {
	role, ok := selectorRoleFor(phase)
	if !ok && phase != PHASE_VOTE {
		return nil
	}

	ids := make([]string, 0)
	for _, id := range rc.JoinOrder {
		p := rc.Players[id]
		if !p.Alive {
			continue
		}

		if phase == PHASE_VOTE || p.Role == role {
			ids = append(ids, id)
		}
	}

	return ids
}

func (rc *RoomContext) EligibleSelectorSet(phase string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range rc.EligibleSelectorIDs(phase) {
		set[id] = true
	}

	return set
}

// selectorRoleFor 返回夜晚子阶段对应的行动身份
func selectorRoleFor(phase string) (string, bool) {
	switch phase {
	case PHASE_NIGHT_KILL:
		return ROLE_MAFIA, true
	case PHASE_NIGHT_HEAL:
		return ROLE_DOCTOR, true
	case PHASE_NIGHT_CHECK:
		return ROLE_POLICE, true
	default:
		return "", false
	}
}

func (rc *RoomContext) BroadcastResp(resp ResponseWrapper) {
	for _, p := range rc.Players {
		rc.sendResp(p, resp)
	}
}

func (rc *RoomContext) UnicastResp(playerID string, resp ResponseWrapper) {
	player, ok := rc.Players[playerID]
	if !ok {
		zap.L().Warn(
			"无法找到玩家进行单播响应",
			zap.String("player_id", playerID),
		)
		return
	}

	rc.sendResp(player, resp)
}

// SendToRole 只发给持有指定身份的玩家，用于同身份私聊与夜晚进度
func (rc *RoomContext) SendToRole(role string, resp ResponseWrapper) {
	for _, p := range rc.Players {
		if p.Role == role {
			rc.sendResp(p, resp)
		}
	}
}

func (rc *RoomContext) sendResp(p *Player, resp ResponseWrapper) {
	if p.RespCh == nil {
		return
	}

	select {
	case p.RespCh <- resp:
	default:
		zap.L().Warn(
			"发送响应失败：玩家响应通道已满",
			zap.String("player_id", p.ID),
			zap.String("response_type", resp.RespType),
		)
	}
}

func (rc *RoomContext) BroadcastGameState() {
	rc.BroadcastResp(WrapResponse(
		RESP_GAME_STATE,
		GameStateNotification{
			Phase: rc.Phase,
			Round: rc.Round,
		},
	))
}

// ArmDelay 装载一个单次定时广播，重复装载会取消并替换之前的定时器，
// 保证每个房间至多一个待触发实例
func (rc *RoomContext) ArmDelay(delay time.Duration) {
	rc.CancelDelay()

	tmoCh := rc.TmoCh

	rc.delayTimer = time.AfterFunc(delay, func() {
		req := RequestWrapper{
			ReqType:    REQ_DELAY_FINISHED,
			NativeData: &DelayFinishedRequest{},
		}

		// 房间可能正在销毁，发不进去就直接丢弃
		select {
		case tmoCh <- req:
		default:
		}
	})
}

// CancelDelay 取消待触发的定时广播，与定时器触发竞争时是无害的空操作
func (rc *RoomContext) CancelDelay() {
	if rc.delayTimer != nil {
		rc.delayTimer.Stop()
		rc.delayTimer = nil
	}
}

// ResetToLobby 在游戏结束或显式重置时清空对局状态，玩家留在房间内
func (rc *RoomContext) ResetToLobby() {
	for _, p := range rc.Players {
		p.Role = ROLE_UNSET
		p.Alive = true
		p.Ready = false
		p.HealedThisRound = false
		p.CurrentSelection = ""
		p.PhaseAck = false
	}

	rc.Round = 0
	rc.Outcome = ""
	rc.PendingKill = ""
	rc.PendingLynch = ""
	rc.Selections = NewSelectionAggregator()
	rc.Barrier.Reset()
}
