package behavior

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"creatorMarket/domain"
	"creatorMarket/pkg/logger"
	"creatorMarket/pkg/metrics"
)

var ErrInvalidEvent = errors.New("invalid behavior event")

const (
	defaultQueueSize    = 1024
	defaultPersistGrace = 5 * time.Second
)

// BehaviorStore is the persistence dependency of the capture service.
type BehaviorStore interface {
	Append(ctx context.Context, event domain.BehaviorEvent) error
}

// BoostApplier receives persisted high-signal events for real-time
// re-weighting of cached recommendations.
type BoostApplier interface {
	Apply(ctx context.Context, event domain.BehaviorEvent)
}

// CaptureService accepts behavior events on the request path and persists
// them asynchronously through a single worker goroutine. Submit never
// blocks: when the queue is full the event is dropped and counted, trading
// completeness for request latency.
type CaptureService struct {
	store   BehaviorStore
	booster BoostApplier

	queue chan domain.BehaviorEvent
	wg    sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

func NewCaptureService(store BehaviorStore, booster BoostApplier) *CaptureService {
	s := &CaptureService{
		store:   store,
		booster: booster,
		queue:   make(chan domain.BehaviorEvent, defaultQueueSize),
		closed:  make(chan struct{}),
	}

	s.wg.Add(1)
	go s.worker()

	return s
}

// Submit validates and enqueues one event, assigning its ID and timestamp.
// Persistence happens in the background; a returned nil only means the
// event was accepted into the queue.
func (s *CaptureService) Submit(ctx context.Context, event domain.BehaviorEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if event.UserID == 0 || event.Type == "" || event.TargetType == "" {
		return fmt.Errorf("%w: user_id, type and target_type are required", ErrInvalidEvent)
	}
	if !validEventType(event.Type) {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, event.Type)
	}

	event.ID = uuid.NewString()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	select {
	case <-s.closed:
		return fmt.Errorf("capture service closed")
	default:
	}

	select {
	case s.queue <- event:
		metrics.EventsAccepted.WithLabelValues(event.Type).Inc()
		return nil
	default:
		EventsDroppedTotal.Inc()
		logger.Warn("behavior_event_dropped", "user_id", event.UserID, "type", event.Type)
		return nil
	}
}

// Close stops accepting events and drains the queue. The queue channel is
// never closed: Submit's closed-check and its send are not atomic, so a
// late sender must hit an open channel instead of a panic.
func (s *CaptureService) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}

func (s *CaptureService) worker() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.queue:
			s.persist(event)
		case <-s.closed:
			// drain whatever was enqueued before shutdown
			for {
				select {
				case event := <-s.queue:
					s.persist(event)
				default:
					return
				}
			}
		}
	}
}

func (s *CaptureService) persist(event domain.BehaviorEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultPersistGrace)
	defer cancel()

	if err := s.store.Append(ctx, event); err != nil {
		EventsFailedTotal.Inc()
		logger.Error("behavior_event_persist_failed",
			"user_id", event.UserID,
			"type", event.Type,
			"error", err,
		)
		return
	}

	if s.booster != nil && event.IsHighSignal() {
		s.booster.Apply(ctx, event)
	}
}

func validEventType(t string) bool {
	switch t {
	case domain.EventView, domain.EventClick, domain.EventSearch,
		domain.EventScrollDeep, domain.EventPurchase,
		domain.EventApplied, domain.EventLike, domain.EventShare:
		return true
	}
	return false
}
