package ws

import (
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)

	// Register client
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)

	// Register client
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	// Unregister client
	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}

	// Send channel should be closed so the write pump exits
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected send channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("send channel not closed after unregister")
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockClient(hub)
	client2 := mockClient(hub)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(EventOrderCreated, map[string]string{"id": "test-123"})

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client %d: failed to unmarshal message: %v", i+1, err)
			}
			if received.Type != EventOrderCreated {
				t.Errorf("client %d: expected type '%s', got '%s'", i+1, EventOrderCreated, received.Type)
			}
			var payload map[string]string
			if err := json.Unmarshal(received.Payload, &payload); err != nil {
				t.Fatalf("client %d: failed to unmarshal payload: %v", i+1, err)
			}
			if payload["id"] != "test-123" {
				t.Errorf("client %d: expected payload id 'test-123', got '%s'", i+1, payload["id"])
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client %d did not receive message", i+1)
		}
	}
}

func TestEventSerialization(t *testing.T) {
	event := Event{
		Type:    EventOrderCompleted,
		Payload: json.RawMessage(`{"order_id":"abc"}`),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}

	if decoded.Type != EventOrderCompleted {
		t.Errorf("expected type '%s', got '%s'", EventOrderCompleted, decoded.Type)
	}
	if string(decoded.Payload) != `{"order_id":"abc"}` {
		t.Errorf("unexpected payload: %s", decoded.Payload)
	}
}

func TestBroadcastEvictsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Client with no buffer, never reads: every broadcast write fails
	slow := &Client{hub: hub, send: make(chan []byte)}
	fast := mockClient(hub)

	hub.register <- slow
	hub.register <- fast
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(EventOrderDeleted, map[string]string{"id": "gone"})

	// Fast client still receives the event
	select {
	case <-fast.send:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("fast client did not receive message")
	}

	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[slow] {
		t.Fatal("slow client should have been evicted")
	}
}

func TestBroadcastWithNoClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Should not panic or block
	hub.Broadcast(EventOrderCreated, map[string]string{"id": "nobody-home"})
	time.Sleep(10 * time.Millisecond)
}
