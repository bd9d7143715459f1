package game

import (
	"encoding/json"

	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// ShortID 取 UUID 的后 8 位作为对外可见的短 ID
func ShortID() string {
	id := GenID()
	return id[len(id)-8:]
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic("Failed to marshal: " + err.Error())
	}

	return data
}

// trySendResp 非阻塞发送，通道已满时直接丢弃
func trySendResp(ch chan ResponseWrapper, resp ResponseWrapper) {
	select {
	case ch <- resp:
	default:
	}
}
