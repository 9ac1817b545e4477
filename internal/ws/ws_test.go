package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func testClient(h *Hub, propertyID int64) *Client {
	return &Client{hub: h, send: make(chan []byte, clientSendBuffer), log: h.log, propertyID: propertyID}
}

func waitCount(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var evt Event
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("bad event %q: %v", msg, err)
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestEventBuffer_Since(t *testing.T) {
	eb := NewEventBuffer(3, time.Hour)
	for id := uint64(1); id <= 5; id++ {
		eb.Append(&Event{ID: id, Time: time.Now()})
	}

	if got := eb.OldestID(); got != 3 {
		t.Errorf("expected oldest 3 after trimming to 3 entries, got %d", got)
	}

	since := eb.Since(3)
	if len(since) != 2 || since[0].ID != 4 || since[1].ID != 5 {
		t.Errorf("unexpected Since(3): %+v", since)
	}

	if got := eb.Since(5); got != nil {
		t.Errorf("expected nothing after last id, got %+v", got)
	}
}

func TestEventBuffer_EvictsExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	eb := NewEventBuffer(10, time.Minute)
	eb.now = func() time.Time { return now }

	eb.Append(&Event{ID: 1, Time: now.Add(-2 * time.Minute)})
	eb.Append(&Event{ID: 2, Time: now})

	if got := eb.OldestID(); got != 2 {
		t.Errorf("expected expired event evicted, oldest is %d", got)
	}
}

func TestHub_BroadcastFiltersByProperty(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	all := testClient(h, 0)
	onlyTwo := testClient(h, 2)
	h.Register(all)
	h.Register(onlyTwo)
	waitCount(t, h, 2)

	h.PublishChanges([]models.PropertyChange{
		{ID: 10, PropertyID: 1, ChangedField: "price", OldValue: "100", NewValue: "120"},
		{ID: 11, PropertyID: 2, ChangedField: "rooms", OldValue: "2", NewValue: "3"},
	})

	first, second := receive(t, all), receive(t, all)
	if first.PropertyID != 1 || second.PropertyID != 2 || second.ID <= first.ID {
		t.Errorf("unexpected stream for unfiltered client: %+v, %+v", first, second)
	}

	evt := receive(t, onlyTwo)
	if evt.PropertyID != 2 || evt.Type != EventPropertyChanged {
		t.Errorf("unexpected event for filtered client: %+v", evt)
	}

	var change models.PropertyChange
	if err := json.Unmarshal(evt.Data, &change); err != nil || change.NewValue != "3" {
		t.Errorf("unexpected event data %s: %v", evt.Data, err)
	}

	select {
	case msg := <-onlyTwo.send:
		t.Errorf("filtered client got extra message %s", msg)
	default:
	}
}

func TestHub_ReplayEvents(t *testing.T) {
	h := NewHub(testLogger())
	h.PublishChanges([]models.PropertyChange{
		{PropertyID: 1, ChangedField: "price"},
		{PropertyID: 1, ChangedField: "garage"},
		{PropertyID: 1, ChangedField: "is_sold"},
	})

	c := testClient(h, 1)
	if !h.ReplayEvents(c, 1) {
		t.Fatal("expected replay to succeed")
	}

	if got := len(c.send); got != 2 {
		t.Fatalf("expected 2 replayed events, got %d", got)
	}

	if evt := receive(t, c); evt.ID != 2 {
		t.Errorf("expected replay to start at id 2, got %d", evt.ID)
	}
}

func TestHub_ReplayTooOld(t *testing.T) {
	h := NewHub(testLogger())
	h.buffer = NewEventBuffer(2, time.Hour)
	for i := 0; i < 5; i++ {
		h.PublishChanges([]models.PropertyChange{{PropertyID: 1, ChangedField: "price"}})
	}

	if h.ReplayEvents(testClient(h, 0), 1) {
		t.Error("expected replay from an evicted id to report a reset")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	h := NewHub(testLogger())
	go h.Run(context.Background())

	c := testClient(h, 0)
	h.Register(c)
	waitCount(t, h, 1)

	h.Shutdown()

	if h.ClientCount() != 0 {
		t.Errorf("expected no clients after shutdown, have %d", h.ClientCount())
	}

	// Shutdown notice, then a closed channel.
	if msg := <-c.send; !json.Valid(msg) {
		t.Errorf("expected JSON shutdown notice, got %q", msg)
	}
	if _, ok := <-c.send; ok {
		t.Error("expected send channel closed after shutdown")
	}
}
