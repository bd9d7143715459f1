package http

import (
	"time"

	"mafia-night-be/internal/service/dto"
	"mafia-night-be/internal/state"

	"github.com/kataras/iris/v12"
)

var startedAt = time.Now()

// Health 是存活探针，同时报告进程运行时长
func Health(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.HealthResponse{
			Status: "ok",
			Uptime: time.Since(startedAt).Round(time.Second).String(),
		})
	}
}

// RoomStats 报告当前活跃房间数
func RoomStats(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.RoomStatsResponse{
			ActiveRooms: appState.RoomSvc.RoomCount(),
		})
	}
}
