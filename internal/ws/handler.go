package ws

import (
	"context"
	"net/http"

	"github.com/HerbHall/roomsentry/internal/alert"
	"github.com/HerbHall/roomsentry/internal/event"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Handler provides WebSocket endpoints for real-time alert updates.
type Handler struct {
	hub    *Hub
	bus    *event.Bus
	logger *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to alert events.
func NewHandler(bus *event.Bus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/alerts", h.handleAlertStream)
}

// handleAlertStream upgrades the connection to WebSocket and streams
// alert events. An optional room_id query parameter narrows the stream
// to one room.
func (h *Handler) handleAlertStream(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		roomID: roomID,
		send:   make(chan Message, 256),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents subscribes to alert lifecycle events and forwards
// them to all connected WebSocket clients.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	forward := func(msgType MessageType) event.Handler {
		return func(_ context.Context, e event.Event) {
			a, ok := e.Payload.(*alert.Alert)
			if !ok {
				return
			}
			h.hub.Broadcast(Message{
				Type:      msgType,
				AlertID:   a.ID,
				Timestamp: e.Timestamp,
				Data:      AlertData{Alert: a},
			}, a.RoomID)
		}
	}

	h.bus.Subscribe(alert.TopicAlertCreated, forward(MessageAlertCreated))
	h.bus.Subscribe(alert.TopicAlertAcknowledged, forward(MessageAlertAcknowledged))

	h.logger.Info("subscribed to alert events for WebSocket broadcasting")
}
