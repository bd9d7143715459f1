package game

// 玩家身份
const (
	ROLE_UNSET      = "Unset"
	ROLE_MAFIA      = "mafia"
	ROLE_CITIZEN    = "citizen"
	ROLE_POLICE     = "police"
	ROLE_DOCTOR     = "doctor"
	ROLE_POLITICIAN = "politician"
)

// 游戏阶段
const (
	PHASE_LOBBY       = "Lobby"
	PHASE_INTRO       = "Intro"
	PHASE_NIGHT_KILL  = "NightKill"
	PHASE_NIGHT_HEAL  = "NightHeal"
	PHASE_NIGHT_CHECK = "NightCheck"
	PHASE_DISCUSSION  = "Discussion"
	PHASE_VOTE        = "Vote"
	PHASE_RESOLUTION  = "RoundResolution"
	PHASE_GAME_OVER   = "GameOver"
)

// 座位颜色按加入顺序分配
var seatColors = []string{
	"#f82d39",
	"#2d5165",
	"#b9ab6c",
	"#0c3fb5",
	"#900599",
	"#b57731",
	"#56e616",
	"#913353",
	"#f1d65d",
	"#3e2528",
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Color string `json:"color"`
	Alive bool   `json:"alive"`
	Ready bool   `json:"is_ready"`

	// 本回合是否被医生治疗，每次夜晚结算后重置
	HealedThisRound bool `json:"-"`
	// 当前阶段选择的目标玩家名，结算后清空
	CurrentSelection string `json:"-"`
	// 阶段动画确认标记，交由 PhaseBarrier 管理
	PhaseAck bool `json:"-"`

	RespCh chan ResponseWrapper `json:"-"`
}

// PublicPlayer 是广播给房间内所有人的玩家视图，不含身份信息
type PublicPlayer struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Alive   bool   `json:"alive"`
	IsReady bool   `json:"is_ready"`
}

func (p *Player) Public() PublicPlayer {
	return PublicPlayer{
		Name:    p.Name,
		Color:   p.Color,
		Alive:   p.Alive,
		IsReady: p.Ready,
	}
}

// IsMafiaAligned 用于胜负判定的阵营归属
func (p *Player) IsMafiaAligned() bool {
	return p.Role == ROLE_MAFIA
}
