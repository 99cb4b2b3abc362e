package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/logger"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/optimizer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Runner compares a scenario's schedule against its optimized version.
type Runner interface {
	Compare(ctx context.Context, sc config.ScenarioConfig, obs optimizer.Observer) (model.ComparisonResult, error)
	Seed() uint64
}

// Handler manages WebSocket connections and routes sim:run requests to the
// runner. Progress and results are broadcast to every client.
type Handler struct {
	hub      *Hub
	runner   Runner
	bridge   *Bridge
	defaults config.ScenarioConfig
	log      logger.Logger
}

func NewHandler(hub *Hub, runner Runner, defaults config.ScenarioConfig, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{
		hub:      hub,
		runner:   runner,
		bridge:   NewBridge(hub, log),
		defaults: defaults,
		log:      log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade: %v", err)
		return
	}

	client := newClient(h.hub, conn)
	h.hub.Register(client)
	go client.writePump()

	h.sendDefaults(client)

	h.readPump(r.Context(), client)
}

func (h *Handler) readPump(ctx context.Context, c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("websocket read: %v", err)
			}
			return
		}

		h.handleMessage(ctx, c, msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.sendError(c, CodeBadRequest, "invalid message: "+err.Error())
		return
	}

	switch env.Type {
	case TypeSimRun:
		sc := h.defaults
		if len(env.Payload) > 0 {
			sc = config.ScenarioConfig{}
			if err := json.Unmarshal(env.Payload, &sc); err != nil {
				h.sendError(c, CodeBadRequest, "invalid sim:run payload: "+err.Error())
				return
			}
		}

		res, err := h.runner.Compare(ctx, sc, h.bridge)
		if err != nil {
			code := CodeInternal
			if errors.Is(err, config.ErrInvalidScenario) {
				code = CodeInvalidScenario
			}
			h.sendError(c, code, err.Error())
			return
		}

		out, err := NewEnvelope(TypeSimResult, res)
		if err != nil {
			h.log.Errorf("marshaling sim:result: %v", err)
			return
		}
		h.hub.Broadcast(out)

	default:
		h.sendError(c, CodeBadRequest, "unknown message type: "+env.Type)
	}
}

func (h *Handler) sendDefaults(c *Client) {
	msg, err := NewEnvelope(TypeDataDefaults, DefaultsPayload{
		Scenario: h.defaults,
		Sources:  SourceCatalog(),
		Seed:     h.runner.Seed(),
	})
	if err != nil {
		h.log.Errorf("creating data:defaults message: %v", err)
		return
	}
	h.hub.Send(c, msg)
}

func (h *Handler) sendError(c *Client, code, message string) {
	h.log.Debugf("sim:error %s: %s", code, message)
	msg, err := NewEnvelope(TypeSimError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	h.hub.Send(c, msg)
}
