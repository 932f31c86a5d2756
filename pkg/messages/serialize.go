package messages

import (
	"encoding/json"
	"fmt"
)

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %w", err)
	}
	return b, nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	m := &Message{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %w", err)
	}
	if m.Type == "" {
		return nil, fmt.Errorf("message type is missing")
	}
	return m, nil
}
