// Package service
package service

import (
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"time"
)

const (
	MessageFlightStatusChanged = "flight_status_changed"
	MessageFlightsUploaded     = "flights_uploaded"
)

// BroadcastMessage 推送给所有websocket订阅者的消息
type BroadcastMessage struct {
	Type      string      `json:"type"`
	EventId   uint        `json:"event_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type FlightStatusChangedPayload struct {
	FlightId  uint                   `json:"flight_id"`
	OldStatus operation.FlightStatus `json:"old_status"`
	NewStatus operation.FlightStatus `json:"new_status"`
	ChangedBy uint                   `json:"changed_by"`
}

type FlightsUploadedPayload struct {
	BatchId          string `json:"batch_id"`
	ProcessedRecords int    `json:"processed_records"`
	FailedRecords    int    `json:"failed_records"`
}

// BroadcasterInterface 广播不会阻塞调用方, 没有订阅者时消息被丢弃
type BroadcasterInterface interface {
	Broadcast(message *BroadcastMessage)
}
