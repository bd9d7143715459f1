package service

import "time"

// isRoomActive 判断房间是否仍值得保留：
// 还有玩家，或创建后尚在宽限期内（给创建流程留出时间），
// 空房间超过宽限期后由清理循环统一回收
func isRoomActive(handle *roomHandle, ttl time.Duration) bool {
	if handle == nil {
		return false
	}

	if handle.machine.PlayerCount() > 0 {
		return true
	}

	return time.Since(handle.machine.CreatedAt()) < ttl
}
