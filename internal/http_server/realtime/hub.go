// Package realtime 通过websocket向前端推送航班状态变化
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/half-nothing/event-logistics/internal/interfaces/log"
	"github.com/half-nothing/event-logistics/internal/interfaces/service"
)

const (
	clientBufferSize = 64
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = 30 * time.Second
	maxMessageSize   = 4096
)

// Hub 维护所有连接, 单独的goroutine负责分发消息
type Hub struct {
	logger     log.LoggerInterface
	clients    map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub(logger log.LoggerInterface) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.DebugF("Websocket client connected (total: %d)", total)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.DebugF("Websocket client disconnected (total: %d)", total)
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.subscription.Accepts(message.eventId) {
					continue
				}
				select {
				case client.send <- message.data:
				default:
					// 客户端处理过慢, 直接断开
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast 不会阻塞, 缓冲区满时丢弃消息
func (h *Hub) Broadcast(message *service.BroadcastMessage) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.ErrorF("Error encoding websocket message %s: %v", message.Type, err)
		return
	}
	select {
	case <-h.done:
	case h.broadcast <- envelope{eventId: message.EventId, data: data}:
	default:
		h.logger.WarnF("Broadcast buffer full, dropping %s message", message.Type)
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case <-h.done:
		return false
	case h.register <- client:
		return true
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case <-h.done:
	case h.unregister <- client:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

type HubShutdownCallback struct {
	hub *Hub
}

func NewHubShutdownCallback(hub *Hub) *HubShutdownCallback {
	return &HubShutdownCallback{hub: hub}
}

func (hc *HubShutdownCallback) Invoke(_ context.Context) error {
	hc.hub.Stop()
	return nil
}

// envelope 编码后的消息以及它所属的活动
type envelope struct {
	eventId uint
	data    []byte
}

// Subscription 客户端能接收的活动, All 为true时接收全部活动的消息
type Subscription struct {
	All    bool
	Events map[uint]struct{}
}

func (s Subscription) Accepts(eventId uint) bool {
	if s.All {
		return true
	}
	_, ok := s.Events[eventId]
	return ok
}

// Client 一个websocket连接的发送队列
type Client struct {
	subscription Subscription
	send         chan []byte
}

func NewClient(subscription Subscription) *Client {
	return &Client{subscription: subscription, send: make(chan []byte, clientBufferSize)}
}

func (c *Client) Send() <-chan []byte {
	return c.send
}

// Serve 在连接上运行读写循环, 直到连接关闭或hub停止
func (h *Hub) Serve(conn *websocket.Conn, subscription Subscription) {
	client := NewClient(subscription)
	if !h.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	go h.writePump(conn, client)
	h.readPump(conn, client)
}

func (h *Hub) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只处理控制帧, 客户端发送的内容被忽略
func (h *Hub) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		h.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.WarnF("Websocket read error: %v", err)
			}
			return
		}
	}
}
