package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"activity-booking-service/internal/domain/availability"
	wstypes "activity-booking-service/internal/domain/websocket"
	"activity-booking-service/internal/events"
	xerrors "activity-booking-service/internal/pkg/errors"
	ws "activity-booking-service/internal/websocket"
	wshandlers "activity-booking-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAvailability struct{}

func (stubAvailability) ForDate(_ context.Context, activityID, date string, _ *int) (*availability.DateAvailability, error) {
	if activityID != "act-1" {
		return nil, xerrors.NotFound("activity")
	}
	return &availability.DateAvailability{
		ActivityID: activityID,
		Date:       date,
		Slots:      []availability.SlotAvailability{{SlotID: "morning", MaxCapacity: 5, RemainingCapacity: 5, IsAvailable: true}},
	}, nil
}

func dial(t *testing.T) (*ws.Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub(nil, zap.NewNop())
	hub.RegisterHandler(wshandlers.NewAvailabilityHandler(stubAvailability{}))
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", NewWebSocketHandler(hub, []string{"*"}, zap.NewNop()).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	first := read(t, conn)
	require.Equal(t, wstypes.EventTypeConnected, first.Type)
	return hub, conn
}

func read(t *testing.T, conn *websocket.Conn) *wstypes.WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := wstypes.ParseMessage(data)
	require.NoError(t, err)
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msgType wstypes.EventType, data interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(wstypes.NewMessage(msgType, data)))
}

func TestWebSocket_PingAndAvailability(t *testing.T) {
	_, conn := dial(t)

	send(t, conn, wstypes.EventTypePing, nil)
	assert.Equal(t, wstypes.EventTypePong, read(t, conn).Type)

	send(t, conn, wstypes.EventTypeAvailabilityGet, wstypes.AvailabilityRequest{ActivityID: "act-1", Date: "2024-06-01"})
	msg := read(t, conn)
	require.Equal(t, wstypes.EventTypeAvailabilityGet, msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "act-1", data["activity_id"])
	assert.Len(t, data["slots"], 1)

	send(t, conn, wstypes.EventTypeAvailabilityGet, wstypes.AvailabilityRequest{ActivityID: "missing", Date: "2024-06-01"})
	msg = read(t, conn)
	require.Equal(t, wstypes.EventTypeError, msg.Type)
	data, ok = msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "activity not found", data["details"])
}

func TestWebSocket_ReceivesBookingEvents(t *testing.T) {
	hub, conn := dial(t)

	require.Eventually(t, func() bool { return hub.TotalClients() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hub.Publish(context.Background(), events.BookingEvent{
		Type:       events.BookingCancelled,
		BookingID:  "b-1",
		ActivityID: "act-1",
	}))

	msg := read(t, conn)
	assert.Equal(t, wstypes.EventType(events.BookingCancelled), msg.Type)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b-1", data["booking_id"])
}

func TestOriginChecker(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)

	req.Header.Set("Origin", "https://admin.example.com")
	assert.True(t, originChecker(nil)(req))
	assert.True(t, originChecker([]string{"*"})(req))
	assert.True(t, originChecker([]string{"https://admin.example.com"})(req))
	assert.False(t, originChecker([]string{"https://other.example.com"})(req))
}
