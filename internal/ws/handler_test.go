package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartgrid_simulator/internal/config"
	"smartgrid_simulator/internal/model"
	"smartgrid_simulator/internal/planner"
)

func testHandler() *Handler {
	p := planner.New(planner.Options{Seed: 42})
	return NewHandler(NewHub(nil), p, config.DefaultScenario(), nil)
}

// dialHandler sets up a test server with the handler and returns a WS connection.
func dialHandler(t *testing.T, handler *Handler) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	conn := dial(t, server)
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

// readJSON reads the next JSON message from the connection.
func readJSON(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

// readUntil reads messages until one of type want arrives and returns
// everything read, that message last.
func readUntil(t *testing.T, conn *websocket.Conn, want string) []Envelope {
	t.Helper()
	var seen []Envelope
	for {
		env := readJSON(t, conn)
		seen = append(seen, env)
		if env.Type == want {
			return seen
		}
	}
}

// sendJSON sends a JSON message on the connection.
func sendJSON(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	data, err := NewEnvelope(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestHandler_InitialDefaults(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	env := readJSON(t, conn)
	require.Equal(t, TypeDataDefaults, env.Type)

	var p DefaultsPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, config.DefaultScenario(), p.Scenario)
	assert.Len(t, p.Sources, 4)
	assert.Equal(t, uint64(42), p.Seed)
}

func TestHandler_SimRunDefaults(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()
	readJSON(t, conn) // data:defaults

	sendJSON(t, conn, TypeSimRun, nil)
	msgs := readUntil(t, conn, TypeSimResult)

	assert.Equal(t, TypeOptimizerBaseline, msgs[0].Type)
	for _, env := range msgs[1 : len(msgs)-1] {
		assert.Contains(t, []string{TypeOptimizerMove, TypeOptimizerFallback}, env.Type)
	}

	var res model.ComparisonResult
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &res))
	assert.Len(t, res.Normal.Hourly, model.HoursPerDay)
	assert.GreaterOrEqual(t, res.CostSavings, 0.0)
	assert.Len(t, res.OptimizedSchedule, 4)
}

func TestHandler_SimRunScenario(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()
	readJSON(t, conn)

	sc := config.ScenarioConfig{
		Sources:    []model.EnergySourceConfig{{Kind: model.SourceSolar, CapacityKW: 5, Active: true}},
		Appliances: []model.Appliance{model.NewAppliance("wm", "Wasmachine", 2, 2, 20, true)},
	}
	sendJSON(t, conn, TypeSimRun, sc)
	msgs := readUntil(t, conn, TypeSimResult)

	require.Len(t, msgs, 3)
	assert.Equal(t, TypeOptimizerMove, msgs[1].Type)

	var mv MovePayload
	require.NoError(t, json.Unmarshal(msgs[1].Payload, &mv))
	assert.Equal(t, "wm", mv.ApplianceID)
	assert.Equal(t, 13, mv.ToHour)
}

func TestHandler_InvalidScenario(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()
	readJSON(t, conn)

	sc := config.DefaultScenario()
	sc.BatteryCapacityKWh = -5
	sendJSON(t, conn, TypeSimRun, sc)

	env := readJSON(t, conn)
	require.Equal(t, TypeSimError, env.Type)

	var p ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, CodeInvalidScenario, p.Code)
	assert.Contains(t, p.Message, "battery_capacity_kwh")
}

func TestHandler_BadMessages(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()
	readJSON(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	env := readJSON(t, conn)
	assert.Equal(t, TypeSimError, env.Type)
	assert.Contains(t, string(env.Payload), CodeBadRequest)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sim:run","payload":{"battery_capacity_kwh":"big"}}`)))
	env = readJSON(t, conn)
	assert.Equal(t, TypeSimError, env.Type)
	assert.Contains(t, string(env.Payload), CodeBadRequest)

	sendJSON(t, conn, "sim:rewind", nil)
	env = readJSON(t, conn)
	assert.Equal(t, TypeSimError, env.Type)
	assert.Contains(t, string(env.Payload), "sim:rewind")

	// Connection still serves requests.
	sendJSON(t, conn, TypeSimRun, nil)
	msgs := readUntil(t, conn, TypeSimResult)
	assert.NotEmpty(t, msgs)
}

func TestHandler_ResultBroadcastToAllClients(t *testing.T) {
	handler := testHandler()
	server := httptest.NewServer(handler)
	defer server.Close()

	a := dial(t, server)
	defer a.Close()
	b := dial(t, server)
	defer b.Close()
	readJSON(t, a)
	readJSON(t, b)

	require.Eventually(t, func() bool { return handler.hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	sendJSON(t, a, TypeSimRun, nil)

	readUntil(t, a, TypeSimResult)
	msgs := readUntil(t, b, TypeSimResult)
	assert.Equal(t, TypeOptimizerBaseline, msgs[0].Type)
}
