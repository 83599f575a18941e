package models

import (
	"bytes"
	"encoding/json"
)

// Connection links a remote user to an institution
type Connection struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	Institution Institution `json:"institution"`
}

// Institution describes a financial institution in the aggregator directory
type Institution struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// ConnectionList decodes either a bare JSON array or the aggregator's
// {"type":"list","data":[...]} envelope.
type ConnectionList []Connection

func (l *ConnectionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []Connection
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var envelope struct {
		Data []Connection `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	*l = envelope.Data
	return nil
}
