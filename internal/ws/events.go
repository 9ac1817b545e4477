package ws

import (
	"encoding/json"
	"time"
)

// EventPropertyChanged is the type of an event carrying one change log row.
const EventPropertyChanged = "property.changed"

// Event is the structured message sent to feed subscribers.
type Event struct {
	Type       string          `json:"type"`
	ID         uint64          `json:"id"`
	PropertyID int64           `json:"property_id"`
	Data       json.RawMessage `json:"data"`
	Time       time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client to request replay of events after LastEventID.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
