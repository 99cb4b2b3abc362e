package ws

import (
	"encoding/json"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeSimRun = "sim:run"

	// Server -> Client
	TypeDataDefaults      = "data:defaults"
	TypeOptimizerBaseline = "optimizer:baseline"
	TypeOptimizerMove     = "optimizer:move"
	TypeOptimizerFallback = "optimizer:fallback"
	TypeSimResult         = "sim:result"
	TypeSimError          = "sim:error"
)

// Error codes carried by sim:error.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeInvalidScenario = "INVALID_SCENARIO"
	CodeInternal        = "INTERNAL_ERROR"
)

// Server -> Client messages

type SourceInfo struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

type DefaultsPayload struct {
	Scenario config.ScenarioConfig `json:"scenario"`
	Sources  []SourceInfo          `json:"sources"`
	Seed     uint64                `json:"seed"`
}

type BaselinePayload struct {
	Score     float64 `json:"score"`
	TotalCost float64 `json:"total_cost"`
	TotalCO2  float64 `json:"total_co2"`
}

type MovePayload struct {
	ApplianceID string  `json:"appliance_id"`
	Name        string  `json:"name"`
	FromHour    int     `json:"from_hour"`
	ToHour      int     `json:"to_hour"`
	Score       float64 `json:"score"`
	Improvement float64 `json:"improvement"`
}

type FallbackPayload struct {
	FinalCost    float64 `json:"final_cost"`
	BaselineCost float64 `json:"baseline_cost"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

func SourceCatalog() []SourceInfo {
	out := make([]SourceInfo, 0, len(model.SourceKinds))
	for _, k := range model.SourceKinds {
		info := model.SourceCatalog[k]
		out = append(out, SourceInfo{Type: string(k), Name: info.Name, Unit: info.Unit})
	}
	return out
}

func MoveFromOptimizer(m optimizer.Move) MovePayload {
	return MovePayload{
		ApplianceID: m.ApplianceID,
		Name:        m.Name,
		FromHour:    m.FromHour,
		ToHour:      m.ToHour,
		Score:       m.Score,
		Improvement: m.Improvement,
	}
}
