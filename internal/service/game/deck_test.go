package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRoles_Bijection(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5"}
	counts := map[string]int{
		ROLE_MAFIA:   1,
		ROLE_CITIZEN: 2,
		ROLE_POLICE:  1,
		ROLE_DOCTOR:  1,
	}

	assigned, err := AssignRoles(players, counts)
	require.NoError(t, err)
	require.Len(t, assigned, len(players))

	got := make(map[string]int)
	for _, id := range players {
		role, ok := assigned[id]
		require.True(t, ok, "player %s missing from assignment", id)
		got[role]++
	}

	assert.Equal(t, counts, got)
}

func TestAssignRoles_ConfigMismatch(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5"}
	counts := map[string]int{
		ROLE_MAFIA:   1,
		ROLE_CITIZEN: 3,
	}

	_, err := AssignRoles(players, counts)
	assert.ErrorIs(t, err, ErrConfigMismatch)
}

// 洗牌应当是均匀的：多次发牌后每名玩家拿到每种角色的频率
// 与该角色的数量占比成正比
func TestAssignRoles_UniformShuffle(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5"}
	counts := map[string]int{
		ROLE_MAFIA:   2,
		ROLE_CITIZEN: 3,
	}

	const trials = 2000

	mafiaHits := make(map[string]int)

	for i := 0; i < trials; i++ {
		assigned, err := AssignRoles(players, counts)
		require.NoError(t, err)

		for id, role := range assigned {
			if role == ROLE_MAFIA {
				mafiaHits[id]++
			}
		}
	}

	// 期望频率 2/5，留出统计涨落的余量
	for _, id := range players {
		ratio := float64(mafiaHits[id]) / float64(trials)
		assert.InDelta(t, 0.4, ratio, 0.06, "player %s mafia ratio %f", id, ratio)
	}
}

func TestRolePeers(t *testing.T) {
	players := map[string]*Player{
		"a": {ID: "a", Name: "Alice", Role: ROLE_MAFIA},
		"b": {ID: "b", Name: "Bob", Role: ROLE_CITIZEN},
		"c": {ID: "c", Name: "Carol", Role: ROLE_MAFIA},
	}

	peers := RolePeers(players, ROLE_MAFIA)
	assert.Equal(t, []string{"Alice", "Carol"}, peers)
}
