package game

// SelectionAggregator 按阶段收集每个有选择权玩家的单一选择，
// 并在所有人都已提交时触发结算
//
// 选择权的集合不在阶段开始时固定，而是每次调用时重新计算，
// 中途死亡或断线的玩家会被移出要求集合，避免阶段卡死
type SelectionAggregator struct {
	// 选择者 ID 到目标玩家名
	selections map[string]string
	// 选择者首次提交的顺序，结算时据此保持计票的稳定顺序
	selectorOrder []string
}

func NewSelectionAggregator() *SelectionAggregator {
	return &SelectionAggregator{
		selections:    make(map[string]string),
		selectorOrder: make([]string, 0),
	}
}

// Record 记录一次选择，同一选择者重复提交会覆盖之前的目标
func (sa *SelectionAggregator) Record(selectorID, targetName string, eligible map[string]bool) error {
	if !eligible[selectorID] {
		return ErrIneligibleSelector
	}

	if _, exists := sa.selections[selectorID]; !exists {
		sa.selectorOrder = append(sa.selectorOrder, selectorID)
	}

	sa.selections[selectorID] = targetName

	return nil
}

// QuorumReached 当且仅当每个当前有选择权的玩家都已提交时为真
func (sa *SelectionAggregator) QuorumReached(eligible []string) bool {
	for _, id := range eligible {
		if _, ok := sa.selections[id]; !ok {
			return false
		}
	}

	return true
}

// Count 返回已提交的选择数量
func (sa *SelectionAggregator) Count() int {
	return len(sa.selections)
}

// RemoveSelector 将死亡或断线的选择者从聚合器中移除
func (sa *SelectionAggregator) RemoveSelector(selectorID string) {
	if _, ok := sa.selections[selectorID]; !ok {
		return
	}

	delete(sa.selections, selectorID)

	for i, id := range sa.selectorOrder {
		if id == selectorID {
			sa.selectorOrder = append(sa.selectorOrder[:i], sa.selectorOrder[i+1:]...)
			break
		}
	}
}

// Resolve 计票并清空所有记录
//
// 平票规则：按提交顺序遍历，第一个达到当前最大票数的目标获胜，
// 即只有严格更高的票数才能取代当前领先者
func (sa *SelectionAggregator) Resolve() (winningTarget string, voteCount int, totalSelections int) {
	counts := make(map[string]int)
	targetOrder := make([]string, 0, len(sa.selections))

	for _, selectorID := range sa.selectorOrder {
		target := sa.selections[selectorID]
		if _, seen := counts[target]; !seen {
			targetOrder = append(targetOrder, target)
		}
		counts[target]++
	}

	for _, target := range targetOrder {
		if counts[target] > voteCount {
			winningTarget = target
			voteCount = counts[target]
		}
	}

	totalSelections = len(sa.selections)

	sa.selections = make(map[string]string)
	sa.selectorOrder = make([]string, 0)

	return winningTarget, voteCount, totalSelections
}
