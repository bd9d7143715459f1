package game

type CreateRoomRequest struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`

	RespCh chan ResponseWrapper `json:"-"`
}

type CreateRoomResponse struct {
	RoomID   string         `json:"room_id"`
	PlayerID string         `json:"player_id"`
	Creator  PublicPlayer   `json:"creator"`
	Players  []PublicPlayer `json:"players"`
}

// 加入请求在任何阶段都会被送进房间协程处理，
// 游戏开始后加入会被拒绝，而不是静默合并
type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`

	RespCh chan ResponseWrapper `json:"-"`
}

type JoinRoomResponse struct {
	RoomID   string         `json:"room_id"`
	PlayerID string         `json:"player_id"`
	Joiner   PublicPlayer   `json:"joiner"`
	Players  []PublicPlayer `json:"players"`
}

type LeaveRoomRequest struct{}

type ChatRequest struct {
	Message string `json:"message"`
	Phase   string `json:"phase"`
}

type ChatResponse struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Message  string `json:"message"`
	IsSystem bool   `json:"is_system"`
}

type ReadyRequest struct{}

type StartGameRequest struct {
	// 角色名到数量的映射，总数必须等于当前房间人数
	RoleCounts map[string]int `json:"role_counts"`
}

type StartGameResponse struct {
	Role string `json:"role"`
	// 同身份玩家名单，目前只对黑手党下发
	Peers []string `json:"peers,omitempty"`
}

type SelectTargetRequest struct {
	TargetName string `json:"target_name"`
	Phase      string `json:"phase"`
}

// 选择进度通知，发给与选择者同身份的玩家
type SelectProgressResponse struct {
	Selector  string `json:"selector"`
	Target    string `json:"target"`
	Submitted int    `json:"submitted"`
	Expected  int    `json:"expected"`
}

type AckPhaseRequest struct{}

type DelayBroadcastRequest struct {
	DelayMs int `json:"delay_ms"`
}

type DisconnectRequest struct{}

type DelayFinishedRequest struct{}

type GameStateNotification struct {
	Phase string `json:"phase"`
	Round int    `json:"round"`
}

type PhaseReadyResponse struct {
	Phase string `json:"phase"`
}

type KillNotification struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type PoliceResultResponse struct {
	Target string `json:"target"`
	Role   string `json:"role"`
}

type PlayerLeaveResponse struct {
	Name string `json:"name"`
}

type GameResultResponse struct {
	Outcome string `json:"outcome"`
	// 玩家名到真实身份的完整揭示
	Roles map[string]string `json:"roles"`
}
