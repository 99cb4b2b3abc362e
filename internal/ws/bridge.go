package ws

import (
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
)

// Bridge implements optimizer.Observer and broadcasts search progress to
// the WebSocket hub.
type Bridge struct {
	hub *Hub
	log logger.Logger
}

func NewBridge(hub *Hub, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Bridge{hub: hub, log: log}
}

func (b *Bridge) OnBaseline(res model.SimulationResult, score float64) {
	b.broadcast(TypeOptimizerBaseline, BaselinePayload{
		Score:     score,
		TotalCost: res.TotalCost,
		TotalCO2:  res.TotalCO2,
	})
}

func (b *Bridge) OnMove(m optimizer.Move) {
	b.broadcast(TypeOptimizerMove, MoveFromOptimizer(m))
}

func (b *Bridge) OnFallback(final, baseline model.SimulationResult) {
	b.broadcast(TypeOptimizerFallback, FallbackPayload{
		FinalCost:    final.TotalCost,
		BaselineCost: baseline.TotalCost,
	})
}

func (b *Bridge) broadcast(msgType string, payload any) {
	msg, err := NewEnvelope(msgType, payload)
	if err != nil {
		b.log.Errorf("marshaling %s: %v", msgType, err)
		return
	}
	b.hub.Broadcast(msg)
}
