package game

// 游戏结局
const (
	OUTCOME_ONGOING     = "Ongoing"
	OUTCOME_MAFIA_WIN   = "MafiaWin"
	OUTCOME_CITIZEN_WIN = "CitizenWin"
	OUTCOME_SPECIAL_WIN = "SpecialRoleWin"
)

// EvaluateOutcome 根据存活阵营人数判定游戏是否结束：
// 黑手党全灭则平民胜，黑手党人数不少于其余存活者则黑手党胜
func EvaluateOutcome(players map[string]*Player) string {
	mafiaAlive := 0
	othersAlive := 0

	for _, p := range players {
		if !p.Alive || p.Role == ROLE_UNSET {
			continue
		}

		if p.IsMafiaAligned() {
			mafiaAlive++
		} else {
			othersAlive++
		}
	}

	if mafiaAlive == 0 {
		return OUTCOME_CITIZEN_WIN
	}

	if mafiaAlive >= othersAlive {
		return OUTCOME_MAFIA_WIN
	}

	return OUTCOME_ONGOING
}

// EvaluateKill 在每次处决结算后调用
// 政治家在白天投票中被处决时单独获胜，优先于人数判定
func EvaluateKill(players map[string]*Player, killed *Player, viaVote bool) string {
	if viaVote && killed != nil && killed.Role == ROLE_POLITICIAN {
		return OUTCOME_SPECIAL_WIN
	}

	return EvaluateOutcome(players)
}
