package net

import (
	"encoding/json"
	"fmt"
)

// Inbound message kinds.
const (
	TypeFullUpdate  = "full-update"
	TypeRegions     = "regions"
	TypeChatMessage = "chat-message"
	TypeBroadcast   = "broadcast"
	TypeAuth        = "auth"
	TypeConsole     = "console"
	TypeError       = "error"
)

// Outbound message kinds. chat-message, auth and console share the inbound
// names.
const (
	TypeSetPixel = "set-pixel"
)

// Envelope is the tagged wrapper every message travels in.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FullUpdate replaces the whole mirror. Data is base64 RGBA, W*H*4 bytes.
type FullUpdate struct {
	W    int    `json:"w"`
	H    int    `json:"h"`
	Data string `json:"data"`
}

// Region patches a rectangle of the mirror.
type Region struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Data string `json:"data"`
}

// ChatMessage is a chat line from another participant. A nil position means
// the author sent none and the bubble follows the local cursor.
type ChatMessage struct {
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	Text    string   `json:"text"`
	IDHue   *float64 `json:"id_hue"`
	IsAdmin bool     `json:"is_admin"`
}

// Broadcast is a server-wide announcement.
type Broadcast struct {
	Text string `json:"text"`
}

// ServerError reports a request the server rejected.
type ServerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SetPixel asks the server to paint one cell.
type SetPixel struct {
	X int   `json:"x"`
	Y int   `json:"y"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ChatPost sends a chat line at a world position.
type ChatPost struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// AuthRequest logs the console in.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Encode wraps payload in an envelope of the given type.
func Encode(typ string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Data: data})
}

// Decode splits a raw message into its envelope.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// Payload unmarshals the envelope data into v.
func (e Envelope) Payload(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
