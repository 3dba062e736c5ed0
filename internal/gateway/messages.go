package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/robot"
	"bridge-lite/session"
)

// Error codes sent to clients.
const (
	CodeBadMessage    = 1
	CodeNoSession     = 2
	CodeBadSession    = 3
	CodeIllegalCall   = 4
	CodeNothingToUndo = 5
	CodeRecommend     = 6
)

type clientMessage struct {
	Type string `json:"type"`

	// start / deal
	System        string   `json:"system,omitempty"`
	Dealer        string   `json:"dealer,omitempty"`
	Seat          string   `json:"seat,omitempty"`
	Vulnerability string   `json:"vulnerability,omitempty"`
	Hand          []string `json:"hand,omitempty"`
	AutoPass      bool     `json:"autoPass,omitempty"`
	Seed          int64    `json:"seed,omitempty"`

	// call
	Call string `json:"call,omitempty"`

	// recommend
	ForceExternal bool `json:"forceExternal,omitempty"`
}

type serverMessage struct {
	Type           string                  `json:"type"`
	State          *stateView              `json:"state,omitempty"`
	Recommendation *advisor.Recommendation `json:"recommendation,omitempty"`
	Error          *errorView              `json:"error,omitempty"`
}

type stateView struct {
	session.Spec
	Ended      bool            `json:"ended"`
	NextSeat   *auction.Seat   `json:"nextSeat,omitempty"`
	OurTurn    bool            `json:"ourTurn"`
	LegalCalls []auction.Call  `json:"legalCalls"`
	RobotCalls []auction.Entry `json:"robotCalls,omitempty"`
	Robots     []auction.Seat  `json:"robots,omitempty"`
}

type errorView struct {
	Code    int                   `json:"code"`
	Message string                `json:"message"`
	Session *session.SessionError `json:"session,omitempty"`
}

func (c *Connection) handleMessage(ctx context.Context, data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(CodeBadMessage, "invalid message format")
		return
	}
	c.Gateway.logger.Debug("message received", zap.String("conn", c.ID), zap.String("type", msg.Type))

	switch msg.Type {
	case "start":
		c.handleStart(msg)
	case "deal":
		c.handleDeal(msg)
	case "call":
		c.handleCall(msg)
	case "undo":
		c.handleUndo()
	case "reset":
		c.handleReset()
	case "recommend":
		c.handleRecommend(ctx, msg)
	case "state":
		c.sendState(nil)
	default:
		c.sendError(CodeBadMessage, "unknown message type "+msg.Type)
	}
}

// handleStart opens a board with a known hand. With autoPass the opponents
// pass automatically and every other call is entered by the client.
func (c *Connection) handleStart(msg clientMessage) {
	s, err := session.Normalize(session.Spec{
		System:        msg.System,
		Dealer:        msg.Dealer,
		Seat:          msg.Seat,
		Vulnerability: msg.Vulnerability,
		Hand:          msg.Hand,
	}, c.Gateway.defaultSystem)
	if err != nil {
		c.sendSessionError(err)
		return
	}
	if _, err := c.Gateway.rec.Engine(s.System); err != nil {
		c.sendError(CodeBadSession, err.Error())
		return
	}
	var t *robot.Table
	if msg.AutoPass {
		t = robot.NewTable(c.Gateway.logger.Named("robot"))
		t.Sit(s.Seat.Next(), nil, robot.PassBidder{})
		t.Sit(s.Seat.Partner().Next(), nil, robot.PassBidder{})
	}
	c.sess, c.table = s, t
	c.advance()
}

// handleDeal deals a seeded board; partner bids from the system and the
// opponents pass.
func (c *Connection) handleDeal(msg clientMessage) {
	s, err := session.Normalize(session.Spec{
		System:        msg.System,
		Dealer:        msg.Dealer,
		Seat:          msg.Seat,
		Vulnerability: msg.Vulnerability,
	}, c.Gateway.defaultSystem)
	if err != nil {
		c.sendSessionError(err)
		return
	}
	engine, err := c.Gateway.rec.Engine(s.System)
	if err != nil {
		c.sendError(CodeBadSession, err.Error())
		return
	}
	seed := msg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	t, ours := robot.NewPractice(engine, s.Seat, seed, c.Gateway.logger.Named("robot"))
	if err := s.SetHand(ours); err != nil {
		c.sendError(CodeBadSession, err.Error())
		return
	}
	c.sess, c.table = s, t
	c.Gateway.logger.Info("board dealt", zap.String("conn", c.ID), zap.Int64("seed", seed), zap.String("seat", s.Seat.String()))
	c.advance()
}

// handleCall appends a call for whichever seat is on turn, then lets the
// robots answer.
func (c *Connection) handleCall(msg clientMessage) {
	if c.sess == nil {
		c.sendError(CodeNoSession, "no board started")
		return
	}
	call, err := auction.ParseCall(msg.Call)
	if err != nil {
		c.sendError(CodeIllegalCall, err.Error())
		return
	}
	if _, err := c.sess.Call(call); err != nil {
		c.sendError(CodeIllegalCall, err.Error())
		return
	}
	c.advance()
}

// handleUndo takes back our last call together with the robot calls made
// after it. Without robots it takes back one call.
func (c *Connection) handleUndo() {
	if c.sess == nil {
		c.sendError(CodeNoSession, "no board started")
		return
	}
	if c.sess.Auction.Len() == 0 {
		c.sendError(CodeNothingToUndo, "nothing to undo")
		return
	}
	for c.sess.Auction.Len() > 0 {
		e, err := c.sess.Undo()
		if err != nil {
			c.sendError(CodeNothingToUndo, err.Error())
			return
		}
		if c.table == nil || !c.table.IsRobot(e.Seat) {
			break
		}
	}
	// Robots ahead of us in the rotation call again.
	c.advance()
}

func (c *Connection) handleReset() {
	if c.sess == nil {
		c.sendError(CodeNoSession, "no board started")
		return
	}
	c.sess.Reset(c.sess.Auction.Dealer)
	c.advance()
}

func (c *Connection) handleRecommend(ctx context.Context, msg clientMessage) {
	if c.sess == nil {
		c.sendError(CodeNoSession, "no board started")
		return
	}
	rec, err := c.Gateway.rec.Recommend(ctx, c.sess, msg.ForceExternal)
	if err != nil {
		var noRec *advisor.NoRecommendationError
		if errors.As(err, &noRec) {
			c.sendError(CodeRecommend, noRec.Reason)
			return
		}
		c.sendError(CodeRecommend, err.Error())
		return
	}
	c.send(serverMessage{Type: "recommendation", Recommendation: rec})
}

func (c *Connection) advance() {
	var made []auction.Entry
	if c.table != nil {
		var err error
		made, err = c.table.AutoAdvance(c.sess.Auction)
		if err != nil {
			c.Gateway.logger.Warn("auto advance failed", zap.String("conn", c.ID), zap.Error(err))
		}
	}
	c.sendState(made)
}

func (c *Connection) sendState(robotCalls []auction.Entry) {
	if c.sess == nil {
		c.sendError(CodeNoSession, "no board started")
		return
	}
	a := c.sess.Auction
	st := &stateView{
		Spec:       c.sess.Spec(),
		Ended:      a.Ended(),
		OurTurn:    c.sess.OurTurn(),
		LegalCalls: []auction.Call{},
		RobotCalls: robotCalls,
	}
	if !st.Ended {
		next := a.NextSeat()
		st.NextSeat = &next
		st.LegalCalls = a.LegalCalls(next)
	}
	if c.table != nil {
		for _, seat := range auction.Rotation {
			if c.table.IsRobot(seat) {
				st.Robots = append(st.Robots, seat)
			}
		}
	}
	c.send(serverMessage{Type: "state", State: st})
}

func (c *Connection) sendSessionError(err error) {
	var sessErr *session.SessionError
	if errors.As(err, &sessErr) {
		c.send(serverMessage{Type: "error", Error: &errorView{Code: CodeBadSession, Message: sessErr.Message, Session: sessErr}})
		return
	}
	c.sendError(CodeBadSession, err.Error())
}

func (c *Connection) sendError(code int, msg string) {
	c.send(serverMessage{Type: "error", Error: &errorView{Code: code, Message: msg}})
}
