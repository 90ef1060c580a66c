package events

import (
	"testing"

	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

func snapshot(ids ...string) []models.Submission {
	list := make([]models.Submission, 0, len(ids))
	for _, id := range ids {
		list = append(list, models.Submission{ID: id})
	}
	return list
}

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	first, unsubFirst := b.Subscribe()
	second, unsubSecond := b.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	b.Publish(snapshot("a"))

	for i, ch := range []<-chan []models.Submission{first, second} {
		select {
		case got := <-ch:
			if len(got) != 1 || got[0].ID != "a" {
				t.Errorf("subscriber %d got %+v", i, got)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestBroker_SlowSubscriberGetsLatest(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(snapshot("a"))
	b.Publish(snapshot("b", "a"))
	b.Publish(snapshot("c", "b", "a"))

	got := <-ch
	if len(got) != 3 || got[0].ID != "c" {
		t.Errorf("Expected latest snapshot, got %+v", got)
	}
	select {
	case extra := <-ch:
		t.Errorf("Expected no further snapshots, got %+v", extra)
	default:
	}
}

func TestBroker_SnapshotsAreCopies(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	ch, unsub := b.Subscribe()
	defer unsub()

	list := snapshot("a")
	b.Publish(list)
	list[0].ID = "mutated"

	got := <-ch
	if got[0].ID != "a" {
		t.Errorf("Subscriber saw caller mutation: %+v", got)
	}
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	ch, unsub := b.Subscribe()

	unsub()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}
	if n := b.Subscribers(); n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}

	// publishing with nobody listening is a no-op
	b.Publish(snapshot("a"))
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker(zerolog.Nop())
	ch, unsub := b.Subscribe()

	b.Close()
	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}
	unsub()

	late, _ := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("Subscribe after Close should return a closed channel")
	}
}
