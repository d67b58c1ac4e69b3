package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
)

func TestPublishReachesSubscriber(t *testing.T) {
	n := New()

	var got []models.Category
	n.Subscribe(func(category models.Category, at time.Time) {
		got = append(got, category)
	})

	at := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	n.Publish(models.CategoryDevelopment, at)
	n.Publish(models.CategoryEmail, at)

	if len(got) != 2 {
		t.Fatalf("handler saw %d events, want 2", len(got))
	}
	if got[0] != models.CategoryDevelopment || got[1] != models.CategoryEmail {
		t.Errorf("events = %v", got)
	}
}

func TestPublishWithoutSubscriberIsNoop(t *testing.T) {
	n := New()
	// Must not panic.
	n.Publish(models.CategoryDevelopment, time.Now())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	n := New()

	count := 0
	n.Subscribe(func(models.Category, time.Time) { count++ })
	n.Publish(models.CategoryDevelopment, time.Now())

	n.Unsubscribe()
	n.Publish(models.CategoryDevelopment, time.Now())

	if count != 1 {
		t.Errorf("handler saw %d events, want 1", count)
	}
	if n.Subscribed() {
		t.Error("Subscribed() = true after Unsubscribe")
	}
}

func TestUnsubscribeWithoutSubscriptionIsSafe(t *testing.T) {
	n := New()
	n.Unsubscribe()
	n.Unsubscribe()
}

func TestConcurrentPublish(t *testing.T) {
	n := New()

	var mu sync.Mutex
	count := 0
	n.Subscribe(func(models.Category, time.Time) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n.Publish(models.CategoryDevelopment, time.Now())
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 1000 {
		t.Errorf("handler saw %d events, want 1000", count)
	}
}
