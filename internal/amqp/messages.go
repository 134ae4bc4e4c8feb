package amqp

import (
	"encoding/json"
	"time"

	"bilancio/internal/core"
)

// AlertDigestMessage carries the outcome of one alert generation pass to
// downstream consumers (notification senders, archival).
type AlertDigestMessage struct {
	AnalysisDate core.Date             `json:"analysis_date"`
	Total        int                   `json:"total"`
	ByPriority   map[core.Priority]int `json:"by_priority"`
	Alerts       []core.Alert          `json:"alerts"`
	Timestamp    time.Time             `json:"timestamp"`
}

// NewAlertDigestMessage builds a digest for the given analysis date.
func NewAlertDigestMessage(analysisDate core.Date, alerts []core.Alert, byPriority map[core.Priority]int) *AlertDigestMessage {
	return &AlertDigestMessage{
		AnalysisDate: analysisDate,
		Total:        len(alerts),
		ByPriority:   byPriority,
		Alerts:       alerts,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertDigestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertDigestMessageFromJSON creates a message from JSON bytes. Typed alert
// payloads come back as generic maps; consumers read the envelope fields.
func AlertDigestMessageFromJSON(data []byte) (*AlertDigestMessage, error) {
	var msg AlertDigestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
