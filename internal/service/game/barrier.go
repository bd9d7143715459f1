package game

// PhaseBarrier 用于阶段切换动画的同步：
// 所有房间成员都确认之后才放行下一阶段
//
// 成员集合由调用方每次传入，断线玩家由房间逻辑从成员中移除，
// 因此不会有人永久阻塞屏障
type PhaseBarrier struct {
	arrived map[string]bool
}

func NewPhaseBarrier() *PhaseBarrier {
	return &PhaseBarrier{
		arrived: make(map[string]bool),
	}
}

// Arrive 标记一名玩家的确认，重复确认是幂等的
func (pb *PhaseBarrier) Arrive(playerID string) {
	pb.arrived[playerID] = true
}

// AllArrived 当且仅当每个当前成员都已确认时为真
func (pb *PhaseBarrier) AllArrived(members []string) bool {
	if len(members) == 0 {
		return false
	}

	for _, id := range members {
		if !pb.arrived[id] {
			return false
		}
	}

	return true
}

// Remove 移除一名成员的确认记录
func (pb *PhaseBarrier) Remove(playerID string) {
	delete(pb.arrived, playerID)
}

// Reset 清空所有确认，放行后由房间逻辑调用
func (pb *PhaseBarrier) Reset() {
	pb.arrived = make(map[string]bool)
}
