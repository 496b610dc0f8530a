//go:build !integration

package behavior

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"creatorMarket/domain"
)

type recordingStore struct {
	mu     sync.Mutex
	events []domain.BehaviorEvent
}

func (s *recordingStore) Append(_ context.Context, event domain.BehaviorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingStore) all() []domain.BehaviorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BehaviorEvent{}, s.events...)
}

type recordingBooster struct {
	mu     sync.Mutex
	events []domain.BehaviorEvent
}

func (b *recordingBooster) Apply(_ context.Context, event domain.BehaviorEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBooster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func TestSubmitPersistsAsynchronously(t *testing.T) {
	store := &recordingStore{}
	svc := NewCaptureService(store, nil)

	err := svc.Submit(context.Background(), domain.BehaviorEvent{
		UserID: 1, Type: domain.EventView, TargetID: "cr-1", TargetType: domain.EntityCreator,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	svc.Close() // drains the queue

	events := store.all()
	if len(events) != 1 {
		t.Fatalf("got %d persisted events, want 1", len(events))
	}
	if events[0].ID == "" {
		t.Error("event ID must be assigned on submit")
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt must be filled on submit")
	}
}

func TestSubmitValidation(t *testing.T) {
	store := &recordingStore{}
	svc := NewCaptureService(store, nil)
	defer svc.Close()

	cases := []struct {
		name  string
		event domain.BehaviorEvent
	}{
		{"missing user", domain.BehaviorEvent{Type: domain.EventView, TargetType: domain.EntityCreator}},
		{"missing type", domain.BehaviorEvent{UserID: 1, TargetType: domain.EntityCreator}},
		{"missing target type", domain.BehaviorEvent{UserID: 1, Type: domain.EventView}},
		{"unknown type", domain.BehaviorEvent{UserID: 1, Type: "hover", TargetType: domain.EntityCreator}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Submit(context.Background(), tc.event)
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("got %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestHighSignalEventsReachBooster(t *testing.T) {
	store := &recordingStore{}
	booster := &recordingBooster{}
	svc := NewCaptureService(store, booster)

	_ = svc.Submit(context.Background(), domain.BehaviorEvent{
		UserID: 1, Type: domain.EventView, TargetID: "cr-1", TargetType: domain.EntityCreator,
	})
	_ = svc.Submit(context.Background(), domain.BehaviorEvent{
		UserID: 1, Type: domain.EventClick, TargetID: "cr-1", TargetType: domain.EntityCreator,
	})
	_ = svc.Submit(context.Background(), domain.BehaviorEvent{
		UserID: 1, Type: domain.EventPurchase, TargetID: "cr-1", TargetType: domain.EntityCreator,
	})

	svc.Close()

	if got := booster.count(); got != 2 {
		t.Errorf("booster saw %d events, want 2 (click + purchase only)", got)
	}
	if got := len(store.all()); got != 3 {
		t.Errorf("store saw %d events, want all 3", got)
	}
}

func TestSubmitAfterCloseFails(t *testing.T) {
	svc := NewCaptureService(&recordingStore{}, nil)
	svc.Close()

	err := svc.Submit(context.Background(), domain.BehaviorEvent{
		UserID: 1, Type: domain.EventView, TargetType: domain.EntityCreator,
	})
	if err == nil {
		t.Error("Submit after Close must fail")
	}
}

func TestSubmitRacingCloseDoesNotPanic(t *testing.T) {
	// the shutdown window is a few instructions wide, so hammer it
	for i := 0; i < 200; i++ {
		svc := NewCaptureService(&recordingStore{}, nil)

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = svc.Submit(context.Background(), domain.BehaviorEvent{
					UserID: 1, Type: domain.EventView,
					TargetID: "cr-1", TargetType: domain.EntityCreator,
				})
			}()
		}
		svc.Close()
		wg.Wait()
	}
}

func TestSubmitManyConcurrent(t *testing.T) {
	store := &recordingStore{}
	svc := NewCaptureService(store, nil)

	var wg sync.WaitGroup
	const n = 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = svc.Submit(context.Background(), domain.BehaviorEvent{
				UserID: uint(i%10 + 1), Type: domain.EventView,
				TargetID: "cr-1", TargetType: domain.EntityCreator,
				CreatedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()
	svc.Close()

	// queue capacity exceeds n, so nothing may be dropped
	if got := len(store.all()); got != n {
		t.Errorf("persisted %d events, want %d", got, n)
	}
}
