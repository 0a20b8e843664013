package services

import (
	"testing"
	"time"
)

func TestSSEHub_NewSSEHub(t *testing.T) {
	hub := NewSSEHub()
	if hub == nil {
		t.Fatal("NewSSEHub should not return nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("new hub should have 0 clients, got %d", hub.ClientCount())
	}
}

func TestSSEHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewSSEHub()

	hub.Subscribe("client1")
	hub.Subscribe("client2")
	if hub.ClientCount() != 2 {
		t.Fatalf("expected 2 clients, got %d", hub.ClientCount())
	}

	hub.Unsubscribe("client1")
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client after unsubscribe, got %d", hub.ClientCount())
	}

	hub.Unsubscribe("nonexistent")
	if hub.ClientCount() != 1 {
		t.Errorf("unsubscribing nonexistent should not affect count, got %d", hub.ClientCount())
	}
}

func TestSSEHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewSSEHub()
	ch := hub.Subscribe("client1")
	hub.Unsubscribe("client1")

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestSSEHub_Publish(t *testing.T) {
	hub := NewSSEHub()
	ch1 := hub.Subscribe("client1")
	ch2 := hub.Subscribe("client2")

	event := ProjectEvent{Type: ProjectEventCreated, ProjectID: 7, FolderName: "250001_Show", Timestamp: time.Now()}
	hub.Publish(event)

	for i, ch := range []<-chan ProjectEvent{ch1, ch2} {
		select {
		case got := <-ch:
			if got.ProjectID != 7 || got.Type != ProjectEventCreated {
				t.Errorf("client%d got %+v", i+1, got)
			}
		case <-time.After(time.Second):
			t.Errorf("client%d did not receive the event", i+1)
		}
	}
}

func TestSSEHub_PublishDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub()
	ch := hub.Subscribe("slow")

	for i := 0; i < 150; i++ {
		hub.Publish(ProjectEvent{Type: ProjectEventUpdated, ProjectID: uint(i)})
	}

	if len(ch) != 100 {
		t.Errorf("buffer should hold 100 events, got %d", len(ch))
	}
}

func TestGetSSEHub_Singleton(t *testing.T) {
	if GetSSEHub() != GetSSEHub() {
		t.Error("GetSSEHub should return the same instance")
	}
}
