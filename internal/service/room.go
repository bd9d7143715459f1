package service

import (
	"sync"
	"time"

	"mafia-night-be/internal/config"
	"mafia-night-be/internal/service/game"

	"go.uber.org/zap"
)

// RoomService 维护房间 ID 到房间状态机的映射
// 每个房间由独立协程驱动，服务层只负责创建、查找与回收
type RoomService struct {
	state *roomServiceState
}

type roomServiceState struct {
	mu sync.RWMutex

	cfg *config.AppConfig

	rooms map[string]*roomHandle

	cleanUpDone chan struct{}
}

type roomHandle struct {
	machine *game.GameMachine
	reqCh   chan game.RequestWrapper
	doneCh  chan struct{}
}

func NewRoomService(cfg *config.AppConfig) *RoomService {
	state := &roomServiceState{
		cfg:         cfg,
		rooms:       make(map[string]*roomHandle),
		cleanUpDone: make(chan struct{}),
	}

	// 启动一个 goroutine 定期清理失效的房间
	go startCleanupLoop(state)

	return &RoomService{
		state: state,
	}
}

func startCleanupLoop(state *roomServiceState) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	ttl := time.Duration(state.cfg.RoomTTLMinutes) * time.Minute

	for {
		select {
		case <-state.cleanUpDone:
			return

		case <-ticker.C:
			state.mu.Lock()

			for roomID, handle := range state.rooms {
				if !isRoomActive(handle, ttl) {
					zap.S().Infof("房间 %s 已无人使用，开始清理", roomID)

					close(handle.doneCh)
					delete(state.rooms, roomID)
				}
			}

			state.mu.Unlock()
		}
	}
}

func (rs *RoomService) Close() {
	close(rs.state.cleanUpDone)

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomID, handle := range rs.state.rooms {
		close(handle.doneCh)
		delete(rs.state.rooms, roomID)
	}
}

// RoomCount 返回当前活跃房间数，用于诊断接口
func (rs *RoomService) RoomCount() int {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	return len(rs.state.rooms)
}

// CreateRoom 创建房间并把创建者作为第一名玩家送入状态机
// 房间 ID 由客户端指定，重复创建会失败
func (rs *RoomService) CreateRoom(roomID, name string, respCh chan game.ResponseWrapper) (chan game.RequestWrapper, error) {
	if roomID == "" || name == "" {
		return nil, game.ErrRoomNotFound
	}

	rs.state.mu.Lock()

	if _, exists := rs.state.rooms[roomID]; exists {
		rs.state.mu.Unlock()
		return nil, game.ErrRoomExists
	}

	doneCh := make(chan struct{})
	machine := game.NewGameMachine(roomID, rs.state.cfg.MaxPlayers, doneCh)

	handle := &roomHandle{
		machine: machine,
		reqCh:   machine.GetReqCh(),
		doneCh:  doneCh,
	}

	rs.state.rooms[roomID] = handle

	go machine.Start()

	rs.state.mu.Unlock()

	handle.reqCh <- game.RequestWrapper{
		ReqType: game.REQ_CREATE_ROOM,
		NativeData: &game.CreateRoomRequest{
			RoomID: roomID,
			Name:   name,
			RespCh: respCh,
		},
	}

	zap.S().Infof("房间 %s 由 %s 创建", roomID, name)

	return handle.reqCh, nil
}

// JoinRoom 把加入请求送入对应房间的状态机
// 名字冲突、满员、游戏已开始都由状态机校验并经 respCh 回报
func (rs *RoomService) JoinRoom(roomID, name string, respCh chan game.ResponseWrapper) (chan game.RequestWrapper, error) {
	rs.state.mu.RLock()
	handle, exists := rs.state.rooms[roomID]
	rs.state.mu.RUnlock()

	if !exists {
		return nil, game.ErrRoomNotFound
	}

	joinReq := game.RequestWrapper{
		ReqType: game.REQ_JOIN_ROOM,
		NativeData: &game.JoinRoomRequest{
			RoomID: roomID,
			Name:   name,
			RespCh: respCh,
		},
	}

	reqTimer := time.NewTimer(5 * time.Second)
	defer reqTimer.Stop()

	select {
	case handle.reqCh <- joinReq:
	case <-reqTimer.C:
		zap.S().Warnf("房间 %s 无法及时处理加入请求，%s 发送失败", roomID, name)
		return nil, game.ErrRoomNotFound
	}

	return handle.reqCh, nil
}
