package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-lite/internal/api"
	"bridge-lite/system"
)

const notrumpHand = "AS KS 4S AH QH 6H 5H KD JD 3D 9C 8C 2C"

type wireEntry struct {
	Seat string `json:"seat"`
	Call string `json:"call"`
}

type inbound struct {
	Type  string `json:"type"`
	State *struct {
		Seat       string      `json:"seat"`
		Hand       []string    `json:"hand"`
		Auction    []wireEntry `json:"auction"`
		Ended      bool        `json:"ended"`
		NextSeat   string      `json:"nextSeat"`
		OurTurn    bool        `json:"ourTurn"`
		LegalCalls []string    `json:"legalCalls"`
		RobotCalls []wireEntry `json:"robotCalls"`
		Robots     []string    `json:"robots"`
	} `json:"state"`
	Recommendation *struct {
		Bid    string `json:"bid"`
		Source string `json:"source"`
	} `json:"recommendation"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGateway(t *testing.T) *Gateway {
	t.Helper()
	reg, err := system.NewRegistry(system.DefaultCacheSize)
	require.NoError(t, err)
	return New(api.NewRecommender(reg, nil, nil, time.Second, nil), "sayc", nil)
}

func testConn(g *Gateway) *Connection {
	return &Connection{ID: "test", Send: make(chan []byte, 16), Gateway: g}
}

func roundTrip(t *testing.T, c *Connection, msg map[string]any) inbound {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	c.handleMessage(context.Background(), raw)
	select {
	case out := <-c.Send:
		var in inbound
		require.NoError(t, json.Unmarshal(out, &in))
		return in
	default:
		t.Fatalf("no reply to %v", msg)
		return inbound{}
	}
}

func TestStartAutoPassAndRecommend(t *testing.T) {
	c := testConn(newGateway(t))

	in := roundTrip(t, c, map[string]any{
		"type": "start", "dealer": "N", "seat": "N", "autoPass": true,
		"hand": strings.Fields(notrumpHand),
	})
	require.Equal(t, "state", in.Type)
	assert.True(t, in.State.OurTurn)
	assert.Equal(t, []string{"E", "W"}, in.State.Robots)

	in = roundTrip(t, c, map[string]any{"type": "recommend"})
	require.Equal(t, "recommendation", in.Type)
	assert.Equal(t, "1NT", in.Recommendation.Bid)
	assert.Equal(t, "deterministic", in.Recommendation.Source)

	in = roundTrip(t, c, map[string]any{"type": "call", "call": "1NT"})
	require.Equal(t, "state", in.Type)
	require.Len(t, in.State.RobotCalls, 1)
	assert.Equal(t, "E", in.State.RobotCalls[0].Seat)
	assert.Equal(t, "Pass", in.State.RobotCalls[0].Call)
	assert.Equal(t, "S", in.State.NextSeat)
	assert.False(t, in.State.OurTurn)

	// partner's call is entered by the client
	in = roundTrip(t, c, map[string]any{"type": "call", "call": "2C"})
	require.Equal(t, "state", in.Type)
	assert.True(t, in.State.OurTurn)
	assert.Len(t, in.State.Auction, 4)

	// undo takes back 2C and West's pass; South is on turn again
	in = roundTrip(t, c, map[string]any{"type": "undo"})
	require.Equal(t, "state", in.Type)
	assert.Len(t, in.State.Auction, 2)
	assert.Equal(t, "S", in.State.NextSeat)

	in = roundTrip(t, c, map[string]any{"type": "reset"})
	assert.Empty(t, in.State.Auction)
	assert.True(t, in.State.OurTurn)
}

func TestErrors(t *testing.T) {
	c := testConn(newGateway(t))

	in := roundTrip(t, c, map[string]any{"type": "call", "call": "1C"})
	require.Equal(t, "error", in.Type)
	assert.Equal(t, CodeNoSession, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "start", "seat": "Q"})
	assert.Equal(t, CodeBadSession, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "start", "seat": "N", "system": "precision"})
	assert.Equal(t, CodeBadSession, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "start", "seat": "N"})
	require.Equal(t, "state", in.Type)

	in = roundTrip(t, c, map[string]any{"type": "undo"})
	assert.Equal(t, CodeNothingToUndo, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "call", "call": "X"})
	assert.Equal(t, CodeIllegalCall, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "recommend"})
	assert.Equal(t, CodeRecommend, in.Error.Code)

	in = roundTrip(t, c, map[string]any{"type": "dance"})
	assert.Equal(t, CodeBadMessage, in.Error.Code)

	c.handleMessage(context.Background(), []byte("{"))
	var bad inbound
	require.NoError(t, json.Unmarshal(<-c.Send, &bad))
	assert.Equal(t, CodeBadMessage, bad.Error.Code)
}

func TestDealIsSeeded(t *testing.T) {
	g := newGateway(t)
	a := roundTrip(t, testConn(g), map[string]any{"type": "deal", "seat": "S", "dealer": "N", "seed": 42})
	b := roundTrip(t, testConn(g), map[string]any{"type": "deal", "seat": "S", "dealer": "N", "seed": 42})

	require.Equal(t, "state", a.Type)
	assert.Len(t, a.State.Hand, 13)
	assert.Equal(t, a.State.Hand, b.State.Hand)
	assert.Equal(t, a.State.Auction, b.State.Auction)
	assert.Equal(t, []string{"N", "E", "W"}, a.State.Robots)
	if !a.State.Ended {
		assert.True(t, a.State.OurTurn)
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	g := newGateway(t)
	srv := httptest.NewServer(http.HandlerFunc(g.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteJSON(map[string]any{
		"type": "start", "dealer": "N", "seat": "N", "hand": strings.Fields(notrumpHand),
	}))
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var in inbound
	require.NoError(t, ws.ReadJSON(&in))
	assert.Equal(t, "state", in.Type)
	assert.True(t, in.State.OurTurn)
	assert.Equal(t, 1, g.Count())
}
