package main

import (
	"mafia-night-be/internal/api/http"
	"mafia-night-be/internal/config"
	"mafia-night-be/internal/logger"
	"mafia-night-be/internal/service"
	"mafia-night-be/internal/state"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		service.NewRoomService(cfg),
	)

	// 启动服务器
	http.RunServer(appState)
}
