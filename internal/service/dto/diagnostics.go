package dto

// 诊断接口的响应内容
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type RoomStatsResponse struct {
	ActiveRooms int `json:"active_rooms"`
}
