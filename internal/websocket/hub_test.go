package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghain/storefront-backend/internal/app/service"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, opts ...HubOption) *Hub {
	t.Helper()
	hub := NewHub(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func registerTab(t *testing.T, hub *Hub, session, tab string) *Client {
	t.Helper()
	before := hub.OpenTabs(session)
	client := NewClient(hub, nil, session, tab)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.OpenTabs(session) == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) []byte {
	t.Helper()
	select {
	case msg := <-client.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatalf("no message for tab %s", client.TabID)
		return nil
	}
}

func assertSilent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected message for tab %s: %s", client.TabID, msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_ForwardsToOtherTabsOnly(t *testing.T) {
	hub := startHub(t)
	origin := registerTab(t, hub, "s1", "tab-a")
	other := registerTab(t, hub, "s1", "tab-b")
	stranger := registerTab(t, hub, "s2", "tab-c")

	hub.OnStorageChange(service.ChangeEvent{
		Session: "s1",
		Key:     "ghain_cart",
		Origin:  "tab-a",
		Count:   3,
		At:      time.Now(),
	})

	var msg StorageMessage
	require.NoError(t, json.Unmarshal(receive(t, other), &msg))
	assert.Equal(t, MessageTypeStorage, msg.Type)
	assert.Equal(t, "ghain_cart", msg.Key)
	assert.Equal(t, 3, msg.Count)
	assert.Equal(t, "tab-a", msg.Origin)

	assertSilent(t, origin)
	assertSilent(t, stranger)
}

func TestHub_NoOriginReachesEveryTab(t *testing.T) {
	hub := startHub(t)
	a := registerTab(t, hub, "s1", "tab-a")
	b := registerTab(t, hub, "s1", "tab-b")

	hub.OnStorageChange(service.ChangeEvent{Session: "s1", Key: "ghain_favorites", Count: 1})

	assert.Contains(t, string(receive(t, a)), `"ghain_favorites"`)
	assert.Contains(t, string(receive(t, b)), `"ghain_favorites"`)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := registerTab(t, hub, "s1", "tab-a")

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.OpenTabs("s1") == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-client.Send
	assert.False(t, ok)

	// A second unregister must not close the channel again
	hub.Unregister(client)
	hub.OnStorageChange(service.ChangeEvent{Session: "s1", Key: "ghain_cart"})
}

func TestHub_StoppedHubDoesNotBlockTabs(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	client := registerTab(t, hub, "s1", "tab-a")

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, ok := <-client.Send
	assert.False(t, ok)

	// More closing tabs than the unregister queue holds
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 1000; i++ {
			hub.Unregister(NewClient(hub, nil, "s1", "tab-b"))
		}
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after shutdown")
	}

	late := NewClient(hub, nil, "s2", "tab-c")
	hub.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
	assert.Zero(t, hub.OpenTabs("s2"))
}

func TestHub_InitialSyncAfterSettleDelay(t *testing.T) {
	snapshot := func(_ context.Context, session string) SyncMessage {
		return SyncMessage{CartCount: 2, FavoritesCount: 5}
	}
	hub := startHub(t, WithSnapshot(snapshot, 20*time.Millisecond))
	client := registerTab(t, hub, "s1", "tab-a")

	var msg SyncMessage
	require.NoError(t, json.Unmarshal(receive(t, client), &msg))
	assert.Equal(t, MessageTypeSync, msg.Type)
	assert.Equal(t, 2, msg.CartCount)
	assert.Equal(t, 5, msg.FavoritesCount)
}

func TestHub_ResyncRequest(t *testing.T) {
	calls := 0
	snapshot := func(_ context.Context, session string) SyncMessage {
		calls++
		return SyncMessage{CartCount: calls}
	}
	hub := startHub(t, WithSnapshot(snapshot, time.Hour))
	client := registerTab(t, hub, "s1", "tab-a")

	hub.HandleClientMessage(client, []byte(`{"type":"resync"}`))

	var msg SyncMessage
	require.NoError(t, json.Unmarshal(receive(t, client), &msg))
	assert.Equal(t, 1, msg.CartCount)

	hub.HandleClientMessage(client, []byte(`not json`))
	assertSilent(t, client)
}

func TestHub_RateLimit(t *testing.T) {
	snapshot := func(_ context.Context, session string) SyncMessage {
		return SyncMessage{}
	}
	hub := startHub(t, WithSnapshot(snapshot, time.Hour))
	client := registerTab(t, hub, "s1", "tab-a")

	for i := 0; i < maxMessagesPerSecond+5; i++ {
		hub.HandleClientMessage(client, []byte(`{"type":"resync"}`))
	}

	received := 0
	for {
		select {
		case <-client.Send:
			received++
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
	assert.Equal(t, maxMessagesPerSecond, received)
}

func TestClient_PumpsOverRealConnection(t *testing.T) {
	hub := startHub(t)
	upgrader := gorillaws.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, &Conn{Conn: ws}, "s1", r.URL.Query().Get("tab"))
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	a, _, err := gorillaws.DefaultDialer.Dial(url+"?tab=a", nil)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := gorillaws.DefaultDialer.Dial(url+"?tab=b", nil)
	require.NoError(t, err)
	defer b.Close()

	require.Eventually(t, func() bool { return hub.OpenTabs("s1") == 2 }, time.Second, 5*time.Millisecond)

	hub.OnStorageChange(service.ChangeEvent{Session: "s1", Key: "ghain_cart", Origin: "a", Count: 1})

	require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := b.ReadMessage()
	require.NoError(t, err)

	var msg StorageMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "ghain_cart", msg.Key)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.OpenTabs("s1") == 1 }, 2*time.Second, 10*time.Millisecond)
}
