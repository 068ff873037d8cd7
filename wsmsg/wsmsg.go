// Package wsmsg contains the message types a voice surface mirrors to remote listeners.
package wsmsg

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type (
	MsgType int

	Envelope struct {
		// Message identifier
		ID uuid.UUID `json:"id"`
		// PitchMsg | ScaleMsg
		Typ MsgType `json:"type"`
		// Voice index the payload belongs to. Unused for ScaleMsg.
		Voice int `json:"voice"`
		// Actual message data.
		Payload json.RawMessage `json:"payload"`
	}

	PitchMsg struct {
		// Hz, after transpose.
		Frequency    float64 `json:"frequency"`
		SubFrequency float64 `json:"subFrequency"`
		// Nearest note name, ex: "C1"
		Note string `json:"note"`
	}

	ScaleMsg struct {
		Scale string  `json:"scale"`
		Root  float64 `json:"root"`
	}
)

const (
	PITCH MsgType = iota
	SCALE
)

func New(typ MsgType, voice int, payload any) (Envelope, error) {
	e := Envelope{
		ID:    uuid.New(),
		Typ:   typ,
		Voice: voice,
	}
	return e, e.SetPayload(payload)
}

func (e *Envelope) SetPayload(payload any) error {
	p, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	e.Payload = p
	return nil
}

func (e *Envelope) Unwrap(msg any) error {
	return json.Unmarshal(e.Payload, msg)
}

func (t *MsgType) UnmarshalJSON(data []byte) error {
	var rawType string
	err := json.Unmarshal(data, &rawType)
	if err != nil {
		return err
	}

	switch rawType {
	case "pitch":
		*t = PITCH
	case "scale":
		*t = SCALE
	default:
		return fmt.Errorf("unknown type: %s", rawType)
	}
	return nil
}

func (t MsgType) MarshalJSON() ([]byte, error) {
	switch t {
	case PITCH:
		return []byte(`"pitch"`), nil
	case SCALE:
		return []byte(`"scale"`), nil
	}
	return []byte{}, fmt.Errorf("unknown MsgTyp value: %d", t)
}
