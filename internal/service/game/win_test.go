package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makePlayers(roles map[string]string, dead ...string) map[string]*Player {
	deadSet := make(map[string]bool)
	for _, id := range dead {
		deadSet[id] = true
	}

	players := make(map[string]*Player)
	for id, role := range roles {
		players[id] = &Player{
			ID:    id,
			Name:  id,
			Role:  role,
			Alive: !deadSet[id],
		}
	}

	return players
}

func TestEvaluateOutcome(t *testing.T) {
	cases := []struct {
		name    string
		roles   map[string]string
		dead    []string
		outcome string
	}{
		{
			name: "游戏继续",
			roles: map[string]string{
				"m1": ROLE_MAFIA, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
			},
			outcome: OUTCOME_ONGOING,
		},
		{
			name: "黑手党全灭平民胜",
			roles: map[string]string{
				"m1": ROLE_MAFIA, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
			},
			dead:    []string{"m1"},
			outcome: OUTCOME_CITIZEN_WIN,
		},
		{
			name: "黑手党人数追平即获胜",
			roles: map[string]string{
				"m1": ROLE_MAFIA, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
			},
			dead:    []string{"c1"},
			outcome: OUTCOME_MAFIA_WIN,
		},
		{
			name: "警察医生算作平民阵营",
			roles: map[string]string{
				"m1": ROLE_MAFIA, "p1": ROLE_POLICE, "d1": ROLE_DOCTOR,
			},
			outcome: OUTCOME_ONGOING,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			players := makePlayers(tc.roles, tc.dead...)
			assert.Equal(t, tc.outcome, EvaluateOutcome(players))
		})
	}
}

func TestEvaluateKill_PoliticianLynchedWinsAlone(t *testing.T) {
	players := makePlayers(map[string]string{
		"m1": ROLE_MAFIA, "g1": ROLE_POLITICIAN, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
	}, "g1")

	outcome := EvaluateKill(players, players["g1"], true)
	assert.Equal(t, OUTCOME_SPECIAL_WIN, outcome)
}

func TestEvaluateKill_PoliticianKilledAtNightDoesNotWin(t *testing.T) {
	players := makePlayers(map[string]string{
		"m1": ROLE_MAFIA, "g1": ROLE_POLITICIAN, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
	}, "g1")

	// 夜晚被杀不触发政治家单独获胜，回落到人数判定
	outcome := EvaluateKill(players, players["g1"], false)
	assert.Equal(t, OUTCOME_ONGOING, outcome)
}

func TestEvaluateKill_CitizenLynchedFallsThrough(t *testing.T) {
	players := makePlayers(map[string]string{
		"m1": ROLE_MAFIA, "c1": ROLE_CITIZEN, "c2": ROLE_CITIZEN,
	}, "c1")

	outcome := EvaluateKill(players, players["c1"], true)
	assert.Equal(t, OUTCOME_MAFIA_WIN, outcome)
}
