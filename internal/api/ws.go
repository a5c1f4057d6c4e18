package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hostel-allotment-backend/internal/auth"
	"hostel-allotment-backend/internal/engine"
	"hostel-allotment-backend/internal/store"
)

// Gateway authenticates real-time connections and dispatches their commands
// to the queue engine.
type Gateway struct {
	ctx      context.Context
	verifier *auth.Verifier
	store    store.Store
	queues   *engine.Manager
	service  *engine.Service
	sweeper  *engine.Sweeper
	hub      *engine.Hub
	upgrader websocket.Upgrader
}

func NewGateway(ctx context.Context, verifier *auth.Verifier, s store.Store, queues *engine.Manager, service *engine.Service, sweeper *engine.Sweeper, hub *engine.Hub) *Gateway {
	return &Gateway{
		ctx:      ctx,
		verifier: verifier,
		store:    s,
		queues:   queues,
		service:  service,
		sweeper:  sweeper,
		hub:      hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the connection, verifies the bearer token before any
// command is accepted, and runs the read loop. Authentication failure is
// the only error that terminates the connection.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	token := c.Query("token")
	if token == "" {
		closeWithPolicyViolation(conn, "Authentication token required")
		return
	}
	userID, err := g.verifier.Verify(token)
	if err != nil {
		closeWithPolicyViolation(conn, "Invalid or expired token")
		return
	}

	client := engine.NewClient(userID, conn)
	defer func() {
		g.hub.Drop(client)
		conn.Close()
		log.Printf("user %s disconnected", userID)
	}()

	client.Send(engine.Frame{Type: "system", Message: "Welcome!", Username: userID})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		g.dispatch(c.Request.Context(), client, data)
	}
}

func closeWithPolicyViolation(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	conn.Close()
}

// dispatch decodes one command and routes it. Every failure is reported to
// the sender as a typed frame; nothing here closes the connection.
func (g *Gateway) dispatch(ctx context.Context, client *engine.Client, data []byte) {
	cmd, err := engine.DecodeCommand(data)
	if err != nil {
		client.Send(engine.Frame{Type: "error", Message: err.Error()})
		return
	}

	switch cmd := cmd.(type) {
	case engine.InitialiseCmd:
		if !g.requireOperator(ctx, client, "initialise") {
			return
		}
		g.queues.Initialise(cmd.HostelID, cmd.Groups)
		client.Send(engine.Frame{Type: "initialise", Message: "queue initialised", HostelID: cmd.HostelID})

	case engine.RoomSelectedCmd:
		upd, err := g.service.SelectRoom(ctx, cmd.HostelID, cmd.RoomID, client.UserID)
		if err != nil {
			g.rejectSelection(client, err)
			return
		}
		client.Send(engine.Frame{
			Type:     "room-selected",
			Message:  "Room selected",
			HostelID: upd.HostelID,
			RoomID:   upd.RoomID,
		})

	case engine.SubscribeCmd:
		g.hub.Subscribe(cmd.HostelID, client)
		client.Send(engine.Frame{Type: "subscribe", Message: "subscribed", HostelID: cmd.HostelID})

	case engine.UnsubscribeCmd:
		g.hub.Unsubscribe(cmd.HostelID, client)
		client.Send(engine.Frame{Type: "unsubscribe", Message: "unsubscribed", HostelID: cmd.HostelID})

	case engine.StartCmd:
		if !g.requireOperator(ctx, client, "start") {
			return
		}
		g.sweeper.Start(g.ctx)
		client.Send(engine.Frame{Type: "start", Message: "sweeper running"})

	case engine.StopCmd:
		owns, err := g.store.AdminOwnsHostel(ctx, client.UserID, cmd.HostelID)
		if err != nil {
			log.Printf("stop: owner check failed for user %s: %v", client.UserID, err)
			client.Send(engine.Frame{Type: "error", Message: "try again later"})
			return
		}
		if !owns {
			client.Send(engine.Frame{Type: "stop", Message: engine.ErrNotOperator.Error()})
			return
		}
		g.queues.Stop(cmd.HostelID)
		client.Send(engine.Frame{Type: "stop", Message: "queue stopped", HostelID: cmd.HostelID})
	}
}

func (g *Gateway) requireOperator(ctx context.Context, client *engine.Client, frameType string) bool {
	ok, err := g.store.IsAdmin(ctx, client.UserID)
	if err != nil {
		log.Printf("%s: admin check failed for user %s: %v", frameType, client.UserID, err)
		client.Send(engine.Frame{Type: "error", Message: "try again later"})
		return false
	}
	if !ok {
		client.Send(engine.Frame{Type: frameType, Message: engine.ErrNotOperator.Error()})
		return false
	}
	return true
}

// rejectSelection maps the engine's error taxonomy onto response frames.
// Policy violations echo their reason; anything else is an internal failure
// surfaced generically.
func (g *Gateway) rejectSelection(client *engine.Client, err error) {
	switch {
	case errors.Is(err, engine.ErrQueueNotFound),
		errors.Is(err, engine.ErrTurnExpired),
		errors.Is(err, engine.ErrNotEligible),
		errors.Is(err, engine.ErrRoomAllotted):
		client.Send(engine.Frame{Type: "room-selected", Message: err.Error()})
	default:
		log.Printf("room selection failed: %v", err)
		client.Send(engine.Frame{Type: "room-selected", Message: "try again later"})
	}
}
