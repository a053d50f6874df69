package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestPublishReachesMatchingSubscribers(t *testing.T) {
	bus := NewBus()

	var created, failed int
	bus.Subscribe(AnalysisEventCreated, func(ctx context.Context, event AnalysisEvent) error {
		created++
		return nil
	})
	bus.Subscribe(AnalysisEventFailed, func(ctx context.Context, event AnalysisEvent) error {
		failed++
		return nil
	})

	if err := bus.Publish(context.Background(), AnalysisEvent{Type: AnalysisEventCreated, AnalysisID: "a-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if created != 1 {
		t.Fatalf("expected 1 created, got %d", created)
	}
	if failed != 0 {
		t.Fatalf("failed handler should not run, got %d", failed)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var calls int
	unsubscribe := bus.Subscribe(AnalysisEventCompleted, func(ctx context.Context, event AnalysisEvent) error {
		calls++
		return nil
	})

	bus.Publish(context.Background(), AnalysisEvent{Type: AnalysisEventCompleted})
	unsubscribe()
	bus.Publish(context.Background(), AnalysisEvent{Type: AnalysisEventCompleted})

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	bus := NewBus()

	errA := errors.New("handler a failed")
	bus.Subscribe(AnalysisEventFailed, func(ctx context.Context, event AnalysisEvent) error {
		return errA
	})
	bus.Subscribe(AnalysisEventFailed, func(ctx context.Context, event AnalysisEvent) error {
		return nil
	})

	err := bus.Publish(context.Background(), AnalysisEvent{Type: AnalysisEventFailed})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error containing errA, got %v", err)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	bus := NewBus()

	unsubscribe := bus.Subscribe(AnalysisEventCreated, nil)
	unsubscribe()

	if err := bus.Publish(context.Background(), AnalysisEvent{Type: AnalysisEventCreated}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestEventCarriesFailureDetails(t *testing.T) {
	bus := NewBus()

	var got AnalysisEvent
	bus.Subscribe(AnalysisEventCompleted, func(ctx context.Context, event AnalysisEvent) error {
		got = event
		return nil
	})

	bus.Publish(context.Background(), AnalysisEvent{
		Type:            AnalysisEventCompleted,
		AnalysisID:      "a-9",
		FailedAnalyzers: []string{"uml", "bpmn"},
	})

	if got.AnalysisID != "a-9" || len(got.FailedAnalyzers) != 2 {
		t.Fatalf("unexpected event: %+v", got)
	}
}
