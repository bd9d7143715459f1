package game

import (
	"math/rand/v2"
	"sort"
)

// AssignRoles 把角色配置展开成与玩家等长的序列，
// 洗牌后按加入顺序一一对应
// 角色总数与玩家数不一致时返回 ErrConfigMismatch
func AssignRoles(ordered []string, roleCounts map[string]int) (map[string]string, error) {
	total := 0
	for _, count := range roleCounts {
		total += count
	}

	if total != len(ordered) {
		return nil, ErrConfigMismatch
	}

	// 按角色名排序展开，保证展开结果与 map 遍历顺序无关
	roles := make([]string, 0, len(roleCounts))
	for role := range roleCounts {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	deck := make([]string, 0, total)
	for _, role := range roles {
		for i := 0; i < roleCounts[role]; i++ {
			deck = append(deck, role)
		}
	}

	// Fisher–Yates 洗牌，每种排列等概率
	for i := len(deck) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	assigned := make(map[string]string, len(ordered))
	for i, playerID := range ordered {
		assigned[playerID] = deck[i]
	}

	return assigned, nil
}

// RolePeers 返回持有同一身份的玩家名单，用于同身份私聊频道
func RolePeers(players map[string]*Player, role string) []string {
	peers := make([]string, 0)
	for _, p := range players {
		if p.Role == role {
			peers = append(peers, p.Name)
		}
	}

	sort.Strings(peers)

	return peers
}
