package service

import (
	"testing"
	"time"

	"mafia-night-be/internal/config"
	"mafia-night-be/internal/service/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *RoomService {
	return NewRoomService(&config.AppConfig{
		MaxPlayers:     8,
		RoomTTLMinutes: 1,
	})
}

// awaitResp 等待一帧指定类型的响应，忽略途中的其他广播
func awaitResp(t *testing.T, respCh chan game.ResponseWrapper, respType string) game.ResponseWrapper {
	t.Helper()

	deadline := time.After(2 * time.Second)

	for {
		select {
		case resp := <-respCh:
			if resp.RespType == respType {
				return resp
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", respType)
			return game.ResponseWrapper{}
		}
	}
}

func TestRoomService_CreateAndJoin(t *testing.T) {
	svc := newTestService()
	defer svc.Close()

	creatorCh := make(chan game.ResponseWrapper, 64)

	reqCh, err := svc.CreateRoom("room-1", "Alice", creatorCh)
	require.NoError(t, err)
	require.NotNil(t, reqCh)

	created := awaitResp(t, creatorCh, game.RESP_CREATE_ROOM_SUCCESS)
	payload := created.Data.(game.CreateRoomResponse)
	assert.Equal(t, "room-1", payload.RoomID)
	assert.NotEmpty(t, payload.PlayerID)
	assert.Equal(t, "Alice", payload.Creator.Name)

	joinerCh := make(chan game.ResponseWrapper, 64)

	_, err = svc.JoinRoom("room-1", "Bob", joinerCh)
	require.NoError(t, err)

	joined := awaitResp(t, joinerCh, game.RESP_JOIN_ROOM_SUCCESS)
	assert.Len(t, joined.Data.(game.JoinRoomResponse).Players, 2)

	assert.Equal(t, 1, svc.RoomCount())
}

func TestRoomService_DuplicateRoomIDRejected(t *testing.T) {
	svc := newTestService()
	defer svc.Close()

	respCh := make(chan game.ResponseWrapper, 64)

	_, err := svc.CreateRoom("room-1", "Alice", respCh)
	require.NoError(t, err)

	_, err = svc.CreateRoom("room-1", "Bob", respCh)
	assert.ErrorIs(t, err, game.ErrRoomExists)
}

func TestRoomService_JoinMissingRoomRejected(t *testing.T) {
	svc := newTestService()
	defer svc.Close()

	respCh := make(chan game.ResponseWrapper, 64)

	_, err := svc.JoinRoom("no-such-room", "Alice", respCh)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestRoomService_EmptyIDsRejected(t *testing.T) {
	svc := newTestService()
	defer svc.Close()

	respCh := make(chan game.ResponseWrapper, 64)

	_, err := svc.CreateRoom("", "Alice", respCh)
	assert.Error(t, err)

	_, err = svc.CreateRoom("room-1", "", respCh)
	assert.Error(t, err)
}

func TestIsRoomActive(t *testing.T) {
	assert.False(t, isRoomActive(nil, time.Minute))

	doneCh := make(chan struct{})
	machine := game.NewGameMachine("room-1", 8, doneCh)

	handle := &roomHandle{
		machine: machine,
		reqCh:   machine.GetReqCh(),
		doneCh:  doneCh,
	}

	// 刚创建的空房间处于宽限期内
	assert.True(t, isRoomActive(handle, time.Minute))

	// 宽限期过后无人的房间视为失效
	assert.False(t, isRoomActive(handle, 0))
}
