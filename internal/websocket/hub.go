package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ghain/storefront-backend/internal/app/service"
	"github.com/ghain/storefront-backend/pkg/logger"
)

const (
	// Rate limiting: messages accepted from one client per second
	maxMessagesPerSecond = 10

	MessageTypeStorage = "storage"
	MessageTypeSync    = "sync"
)

// StorageMessage tells a tab that another tab of the same visitor rewrote a slot.
type StorageMessage struct {
	Type   string    `json:"type"`
	Key    string    `json:"key"`
	Count  int       `json:"count"`
	Origin string    `json:"origin,omitempty"`
	At     time.Time `json:"at"`
}

// SyncMessage is the full state summary a tab receives once it has settled.
type SyncMessage struct {
	Type           string `json:"type"`
	CartCount      int    `json:"cart_count"`
	FavoritesCount int    `json:"favorites_count"`
}

// ClientMessage is what a tab may send: a "resync" request.
type ClientMessage struct {
	Type string `json:"type"`
}

// Snapshotter builds the sync summary for a session.
type Snapshotter func(ctx context.Context, sessionID string) SyncMessage

// Client is one open tab.
type Client struct {
	Hub           *Hub
	Conn          *Conn
	SessionID     string
	TabID         string
	Send          chan []byte
	MessageCount  int       // messages received in the current second
	LastResetTime time.Time // start of the current second
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, sessionID, tabID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		TabID:     tabID,
		Send:      make(chan []byte, 64),
	}
}

// Hub tracks the open tabs of every session and forwards storage changes to
// all tabs of a session except the one that made the change.
type Hub struct {
	// sessionID -> open tabs
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	settled    chan *Client

	// closed when Run returns
	done     chan struct{}
	stopOnce sync.Once

	snapshot    Snapshotter
	settleDelay time.Duration

	mu sync.RWMutex
}

// BroadcastMessage is a payload for every tab of a session but the origin.
type BroadcastMessage struct {
	SessionID string
	Message   []byte
	OriginTab string // excluded when set
}

type HubOption func(*Hub)

// WithSnapshot enables the initial sync message, sent settleDelay after a
// tab connects.
func WithSnapshot(snapshot Snapshotter, settleDelay time.Duration) HubOption {
	return func(h *Hub) {
		h.snapshot = snapshot
		h.settleDelay = settleDelay
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
		settled:    make(chan *Client, 256),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stop()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			tabs := len(h.clients[client.SessionID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"tab_id":     client.TabID,
				"open_tabs":  tabs,
			})
			h.scheduleSync(client)

		case client := <-h.unregister:
			h.mu.Lock()
			remaining := h.remove(client)
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id": client.SessionID,
				"tab_id":     client.TabID,
				"open_tabs":  remaining,
			})

		case client := <-h.settled:
			h.sendSync(ctx, client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				if message.OriginTab != "" && client.TabID == message.OriginTab {
					continue
				}
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer is full; drop the tab asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": client.SessionID,
						"tab_id":     client.TabID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove drops client and closes its Send channel once. Callers hold h.mu.
func (h *Hub) remove(client *Client) int {
	list, ok := h.clients[client.SessionID]
	if !ok {
		return 0
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return len(list)
	}
	if len(kept) == 0 {
		delete(h.clients, client.SessionID)
	} else {
		h.clients[client.SessionID] = kept
	}
	close(client.Send)
	return len(kept)
}

// stop marks the hub done, then closes every registered tab and any tab
// still waiting in the register queue.
func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
	h.closeAll()
	for {
		select {
		case client := <-h.register:
			close(client.Send)
		default:
			return
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sessionID, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, sessionID)
	}
}

func (h *Hub) scheduleSync(client *Client) {
	if h.snapshot == nil {
		return
	}
	time.AfterFunc(h.settleDelay, func() {
		select {
		case h.settled <- client:
		default:
			logger.Warn("Settled queue full, initial sync skipped", map[string]interface{}{
				"session_id": client.SessionID,
			})
		}
	})
}

// sendSync runs on the hub goroutine, so the client cannot be closed meanwhile.
func (h *Hub) sendSync(ctx context.Context, client *Client) {
	if !h.isRegistered(client) {
		return
	}
	msg := h.snapshot(ctx, client.SessionID)
	msg.Type = MessageTypeSync
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal sync message", err, nil)
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

func (h *Hub) isRegistered(client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[client.SessionID] {
		if c == client {
			return true
		}
	}
	return false
}

// OnStorageChange forwards a store change to the other tabs of its session.
// It never blocks: when the broadcast queue is full the message is dropped.
func (h *Hub) OnStorageChange(event service.ChangeEvent) {
	data, err := json.Marshal(StorageMessage{
		Type:   MessageTypeStorage,
		Key:    event.Key,
		Count:  event.Count,
		Origin: event.Origin,
		At:     event.At,
	})
	if err != nil {
		logger.Error("Failed to marshal storage message", err, nil)
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{
		SessionID: event.Session,
		Message:   data,
		OriginTab: event.Origin,
	}:
	default:
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"session_id": event.Session,
			"key":        event.Key,
		})
	}
}

// Register adds a tab. After the hub stopped the tab's Send is closed
// instead, which ends its write pump.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.Send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a tab. It returns immediately once the hub stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// OpenTabs reports how many tabs of a session are connected.
func (h *Hub) OpenTabs(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// HandleClientMessage handles a message sent by a tab.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": client.SessionID,
			"count":      count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"session_id": client.SessionID,
			"error":      err.Error(),
		})
		return
	}

	if msg.Type == "resync" && h.snapshot != nil {
		select {
		case h.settled <- client:
		default:
		}
	}
}
