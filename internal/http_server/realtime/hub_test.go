package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/half-nothing/event-logistics/internal/base"
	"github.com/half-nothing/event-logistics/internal/interfaces/operation"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "realtime-test-secret"

// memberEvents 只实现 GetEventsByMember, uid -> 活动id
type memberEvents struct {
	operation.EventOperationInterface
	members map[uint][]uint
	err     error
	pages   int
}

func (m *memberEvents) GetEventsByMember(uid uint, page, pageSize int) ([]*operation.Event, int64, error) {
	m.pages++
	if m.err != nil {
		return nil, 0, m.err
	}
	ids := m.members[uid]
	events := make([]*operation.Event, 0, pageSize)
	for i := (page - 1) * pageSize; i < len(ids) && len(events) < pageSize; i++ {
		events = append(events, &operation.Event{ID: ids[i]})
	}
	return events, int64(len(ids)), nil
}

func startHub(t *testing.T, events operation.EventOperationInterface) (*Hub, string) {
	t.Helper()
	hub := NewHub(base.NewLoggerWithWriter(io.Discard, false))
	go hub.Run()
	t.Cleanup(hub.Stop)

	e := echo.New()
	e.GET("/ws", hub.Handler(events), echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(testSecret),
		TokenLookup:   "query:token",
		SigningMethod: "HS512",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.Claims)
		},
	}))
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func signToken(t *testing.T, uid uint, permission operation.Permission) string {
	t.Helper()
	claims := &service.Claims{
		Uid:        uid,
		Username:   fmt.Sprintf("user%d", uid),
		Permission: int64(permission),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func dial(t *testing.T, url, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (messageType string, eventId uint) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var message struct {
		Type    string `json:"type"`
		EventId uint   `json:"event_id"`
	}
	require.NoError(t, conn.ReadJSON(&message))
	return message.Type, message.EventId
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub, url := startHub(t, &memberEvents{members: map[uint][]uint{2: {7}}})
	admin := dial(t, url, signToken(t, 1, operation.AdminEntry))
	member := dial(t, url, signToken(t, 2, operation.FlightShowList))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(&service.BroadcastMessage{
		Type:    service.MessageFlightStatusChanged,
		EventId: 7,
		Payload: &service.FlightStatusChangedPayload{
			FlightId:  3,
			OldStatus: operation.FlightPending,
			NewStatus: operation.FlightArrived,
			ChangedBy: 1,
		},
	})

	for _, conn := range []*websocket.Conn{admin, member} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var message struct {
			Type    string `json:"type"`
			EventId uint   `json:"event_id"`
			Payload struct {
				FlightId  uint   `json:"flight_id"`
				OldStatus string `json:"old_status"`
				NewStatus string `json:"new_status"`
			} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &message))
		assert.Equal(t, service.MessageFlightStatusChanged, message.Type)
		assert.EqualValues(t, 7, message.EventId)
		assert.EqualValues(t, 3, message.Payload.FlightId)
		assert.Equal(t, "pending", message.Payload.OldStatus)
		assert.Equal(t, "Arrived", message.Payload.NewStatus)
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t, &memberEvents{})
	conn := dial(t, url, signToken(t, 1, operation.AdminEntry))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(base.NewLoggerWithWriter(io.Discard, false))
	// hub 未运行, 缓冲区写满后消息被丢弃
	for i := 0; i < 1000; i++ {
		hub.Broadcast(&service.BroadcastMessage{Type: service.MessageFlightsUploaded})
	}
	hub.Stop()
	hub.Broadcast(&service.BroadcastMessage{Type: service.MessageFlightsUploaded})
	assert.False(t, hub.Register(NewClient(Subscription{All: true})))
}

func TestStopClosesClients(t *testing.T) {
	hub, url := startHub(t, &memberEvents{})
	conn := dial(t, url, signToken(t, 1, operation.AdminEntry))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, NewHubShutdownCallback(hub).Invoke(context.Background()))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestBroadcastSkipsClientsOfOtherEvents(t *testing.T) {
	hub, url := startHub(t, &memberEvents{members: map[uint][]uint{2: {7}, 3: {8}}})
	seventh := dial(t, url, signToken(t, 2, operation.FlightShowList))
	eighth := dial(t, url, signToken(t, 3, operation.FlightShowList))
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(&service.BroadcastMessage{Type: service.MessageFlightsUploaded, EventId: 8})
	hub.Broadcast(&service.BroadcastMessage{Type: service.MessageFlightStatusChanged, EventId: 7})

	// 消息按顺序分发, 第7号活动的成员收到的第一条必须是自己活动的消息
	messageType, eventId := readMessage(t, seventh)
	assert.Equal(t, service.MessageFlightStatusChanged, messageType)
	assert.EqualValues(t, 7, eventId)

	messageType, eventId = readMessage(t, eighth)
	assert.Equal(t, service.MessageFlightsUploaded, messageType)
	assert.EqualValues(t, 8, eventId)

	require.NoError(t, eighth.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := eighth.ReadMessage()
	assert.Error(t, err)
}

func TestRunFiltersBySubscription(t *testing.T) {
	hub := NewHub(base.NewLoggerWithWriter(io.Discard, false))
	go hub.Run()
	defer hub.Stop()

	outsider := NewClient(Subscription{Events: map[uint]struct{}{9: {}}})
	insider := NewClient(Subscription{Events: map[uint]struct{}{4: {}}})
	require.True(t, hub.Register(outsider))
	require.True(t, hub.Register(insider))

	hub.Broadcast(&service.BroadcastMessage{Type: service.MessageFlightStatusChanged, EventId: 4})

	select {
	case data := <-insider.Send():
		assert.Contains(t, string(data), `"event_id":4`)
	case <-time.After(2 * time.Second):
		t.Fatal("subscribed client received nothing")
	}
	select {
	case data := <-outsider.Send():
		t.Fatalf("client of event 9 received %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandlerRequiresToken(t *testing.T) {
	hub, url := startHub(t, &memberEvents{})

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)
	assert.Less(t, resp.StatusCode, http.StatusInternalServerError)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHandlerMembershipLookupFails(t *testing.T) {
	hub, url := startHub(t, &memberEvents{err: errors.New("connection refused")})

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+signToken(t, 2, operation.FlightShowList), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestLoadSubscription(t *testing.T) {
	ids := make([]uint, 0, 150)
	for i := uint(1); i <= 150; i++ {
		ids = append(ids, i)
	}
	events := &memberEvents{members: map[uint][]uint{5: ids}}

	subscription, err := LoadSubscription(events, 5, int64(operation.FlightShowList))
	require.NoError(t, err)
	assert.False(t, subscription.All)
	assert.Len(t, subscription.Events, 150)
	assert.Equal(t, 2, events.pages)
	assert.True(t, subscription.Accepts(150))
	assert.False(t, subscription.Accepts(151))

	events.pages = 0
	subscription, err = LoadSubscription(events, 5, int64(operation.AdminEntry|operation.FlightShowList))
	require.NoError(t, err)
	assert.True(t, subscription.All)
	assert.True(t, subscription.Accepts(999))
	assert.Zero(t, events.pages)

	subscription, err = LoadSubscription(events, 6, int64(operation.FlightShowList))
	require.NoError(t, err)
	assert.False(t, subscription.Accepts(1))
}
