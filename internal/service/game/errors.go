package game

import "errors"

// 游戏核心的可恢复错误，只会回报给发起请求的玩家，
// 不会导致房间被销毁
var (
	ErrRoomNotFound       = errors.New("房间不存在")
	ErrRoomExists         = errors.New("房间已存在")
	ErrRoomFull           = errors.New("房间人数已满")
	ErrNameTaken          = errors.New("该名字已被占用")
	ErrGameAlreadyStarted = errors.New("游戏已经开始")
	ErrConfigMismatch     = errors.New("角色数量与玩家数量不一致")
	ErrIneligibleSelector = errors.New("当前阶段你没有选择权")
	ErrInvalidPhase       = errors.New("当前阶段不支持该请求类型")
	ErrUnknownTarget      = errors.New("目标玩家不在房间中")
)
