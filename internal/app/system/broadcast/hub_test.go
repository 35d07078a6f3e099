package broadcast_test

import (
	"testing"

	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"go.uber.org/zap"
)

func newHub() *broadcast.Hub {
	return broadcast.NewHub(zap.NewNop())
}

func TestPublish_ReachesAllSubscribers(t *testing.T) {
	hub := newHub()

	_, ch1 := hub.Subscribe()
	_, ch2 := hub.Subscribe()

	hub.Publish(broadcast.KindCreated, "payload-1")

	for i, ch := range []<-chan broadcast.Envelope{ch1, ch2} {
		select {
		case env := <-ch:
			if env.Kind != broadcast.KindCreated {
				t.Errorf("subscriber %d: kind %q, want %q", i, env.Kind, broadcast.KindCreated)
			}
			if env.Payload != "payload-1" {
				t.Errorf("subscriber %d: payload %v", i, env.Payload)
			}
		default:
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestPublish_AtMostOncePerSubscriber(t *testing.T) {
	hub := newHub()
	_, ch := hub.Subscribe()

	hub.Publish(broadcast.KindUpdated, "only-once")

	<-ch
	select {
	case env := <-ch:
		t.Fatalf("unexpected second delivery: %+v", env)
	default:
	}
}

func TestUnsubscribe_StopsDeliveryAndClosesChannel(t *testing.T) {
	hub := newHub()
	id, ch := hub.Subscribe()

	hub.Unsubscribe(id)
	hub.Publish(broadcast.KindDeleted, "gone")

	if _, open := <-ch; open {
		t.Error("expected channel to be closed after Unsubscribe")
	}
	if n := hub.Count(); n != 0 {
		t.Errorf("Count: got %d, want 0", n)
	}

	// Second unsubscribe must be a harmless no-op.
	hub.Unsubscribe(id)
}

func TestPublish_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := newHub()
	_, slow := hub.Subscribe()

	// Overfill the buffer; Publish must never block.
	for i := 0; i < 100; i++ {
		hub.Publish(broadcast.KindUpdated, i)
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
			continue
		default:
		}
		break
	}
	if received == 0 || received >= 100 {
		t.Errorf("expected a bounded number of deliveries, got %d", received)
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	hub := newHub()
	// Must not panic or block.
	hub.Publish(broadcast.KindCreated, "nobody-home")
}
