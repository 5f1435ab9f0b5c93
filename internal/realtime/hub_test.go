package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	event := &Event{Type: EventAnalysis, Timestamp: time.Now()}
	if !h.shouldSend(client, event) {
		t.Error("AllEvents client should receive all events")
	}
}

func TestShouldSend_EventTypeFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		EventTypes: []EventType{EventAnalysis, EventRiskAlert},
	}}

	analysisEvent := &Event{Type: EventAnalysis}
	alertEvent := &Event{Type: EventRiskAlert}
	simEvent := &Event{Type: EventSimulation}

	if !h.shouldSend(client, analysisEvent) {
		t.Error("Should receive analysis events")
	}
	if !h.shouldSend(client, alertEvent) {
		t.Error("Should receive risk_alert events")
	}
	if h.shouldSend(client, simEvent) {
		t.Error("Should NOT receive simulation events")
	}
}

func TestShouldSend_AddressFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Addresses: []string{"0xwallet1"},
	}}

	matching := &Event{
		Type: EventAnalysis,
		Data: map[string]interface{}{"address": "0xwallet1", "trustScore": 62},
	}
	notMatching := &Event{
		Type: EventAnalysis,
		Data: map[string]interface{}{"address": "0xother"},
	}
	matchingFrom := &Event{
		Type: EventSimulation,
		Data: map[string]interface{}{"from": "0xwallet1", "to": "0xother"},
	}
	matchingTo := &Event{
		Type: EventSimulation,
		Data: map[string]interface{}{"from": "0xsender", "to": "0xwallet1"},
	}

	if !h.shouldSend(client, matching) {
		t.Error("Should match on address")
	}
	if h.shouldSend(client, notMatching) {
		t.Error("Should NOT match unrelated wallets")
	}
	if !h.shouldSend(client, matchingFrom) {
		t.Error("Should match on from address")
	}
	if !h.shouldSend(client, matchingTo) {
		t.Error("Should match on to address")
	}
}

func TestShouldSend_MinRiskScoreFilter(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		MinRiskScore: 40,
	}}

	risky := &Event{
		Type: EventSimulation,
		Data: map[string]interface{}{"riskScore": 65.0},
	}
	safe := &Event{
		Type: EventSimulation,
		Data: map[string]interface{}{"riskScore": 12.0},
	}
	analysis := &Event{
		Type: EventAnalysis,
		Data: map[string]interface{}{"trustScore": 90},
	}

	if !h.shouldSend(client, risky) {
		t.Error("Should receive high-risk simulation")
	}
	if h.shouldSend(client, safe) {
		t.Error("Should NOT receive low-risk simulation")
	}
	if !h.shouldSend(client, analysis) {
		t.Error("MinRiskScore filter should only apply to simulations")
	}
}

func TestShouldSend_EmptySubscription(t *testing.T) {
	h := testHub()

	// No filters, not AllEvents
	client := &Client{sub: Subscription{}}

	event := &Event{Type: EventAnalysis}
	if !h.shouldSend(client, event) {
		t.Error("Empty subscription (no filters) should receive events")
	}
}

func TestShouldSend_NonMapData(t *testing.T) {
	h := testHub()

	client := &Client{sub: Subscription{
		Addresses: []string{"0xwallet1"},
	}}

	// Event with non-map data should not crash
	event := &Event{
		Type: EventRiskAlert,
		Data: "string data not a map",
	}

	// Address filter skips non-map data (can't extract addresses), so event passes through
	if !h.shouldSend(client, event) {
		t.Error("Non-map data should pass through when address filter can't extract addresses")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle tests
// ---------------------------------------------------------------------------

func TestHub_Stats_Initial(t *testing.T) {
	h := testHub()

	stats := h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients, got %v", stats["connectedClients"])
	}
	if stats["totalEvents"].(int64) != 0 {
		t.Errorf("Expected 0 total events, got %v", stats["totalEvents"])
	}
}

func TestHub_BroadcastAndStats(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Broadcast an event
	h.Broadcast(&Event{Type: EventAnalysis, Timestamp: time.Now()})
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["totalEvents"].(int64) != 1 {
		t.Errorf("Expected 1 total event, got %v", stats["totalEvents"])
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	stats := h.Stats()
	if stats["connectedClients"].(int) != 1 {
		t.Errorf("Expected 1 connected client, got %v", stats["connectedClients"])
	}
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak 1, got %v", stats["peakClients"])
	}

	h.unregister <- client
	time.Sleep(50 * time.Millisecond)

	stats = h.Stats()
	if stats["connectedClients"].(int) != 0 {
		t.Errorf("Expected 0 connected clients after unregister, got %v", stats["connectedClients"])
	}
	// Peak should still be 1
	if stats["peakClients"].(int64) != 1 {
		t.Errorf("Expected peak still 1, got %v", stats["peakClients"])
	}
}

func TestHub_BroadcastToClient(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{AllEvents: true},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	h.BroadcastAnalysis(map[string]interface{}{
		"address": "0xwallet1", "trustScore": 62, "category": "moderate",
	})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestHub_ContextCancellation(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
		// Hub stopped
	case <-time.After(2 * time.Second):
		t.Error("Hub did not stop after context cancellation")
	}
}

func TestHub_FilteredBroadcast(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	// Client only wants risk alerts
	client := &Client{
		hub:  h,
		send: make(chan []byte, 256),
		sub:  Subscription{EventTypes: []EventType{EventRiskAlert}},
	}

	h.register <- client
	time.Sleep(50 * time.Millisecond)

	// Send an analysis event (should be filtered out)
	h.Broadcast(&Event{Type: EventAnalysis, Timestamp: time.Now()})
	time.Sleep(100 * time.Millisecond)

	select {
	case <-client.send:
		t.Error("Client should NOT receive analysis event")
	default:
		// Good - filtered out
	}

	// Send a risk alert (should be received)
	h.Broadcast(&Event{Type: EventRiskAlert, Timestamp: time.Now()})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("Expected non-empty message")
		}
	case <-time.After(time.Second):
		t.Error("Client should receive risk alert")
	}
}
