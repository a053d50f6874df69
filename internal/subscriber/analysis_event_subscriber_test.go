package subscriber

import (
	"context"
	"testing"
	"time"

	"github.com/gitanalyzer/backend/internal/eventbus"
	"github.com/gitanalyzer/backend/internal/model"
	"github.com/gitanalyzer/backend/internal/repository"
)

type fakeJobRepo struct {
	jobs map[string]*model.AnalysisJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*model.AnalysisJob)}
}

func (f *fakeJobRepo) Create(job *model.AnalysisJob) error {
	f.jobs[job.AnalysisID] = job
	return nil
}

func (f *fakeJobRepo) GetByAnalysisID(analysisID string) (*model.AnalysisJob, error) {
	job, ok := f.jobs[analysisID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return job, nil
}

func (f *fakeJobRepo) Save(job *model.AnalysisJob) error {
	f.jobs[job.AnalysisID] = job
	return nil
}

func (f *fakeJobRepo) GetRecent(limit int) ([]model.AnalysisJob, error) { return nil, nil }
func (f *fakeJobRepo) GetActive() ([]model.AnalysisJob, error)         { return nil, nil }
func (f *fakeJobRepo) CleanupStuckJobs(timeout time.Duration) (int64, error) {
	return 0, nil
}

func (f *fakeJobRepo) FailActiveJobs(reason string) (int64, error) { return 0, nil }

func TestStartedEventMirrorsProcessing(t *testing.T) {
	repo := newFakeJobRepo()
	repo.Create(&model.AnalysisJob{AnalysisID: "a-1", Status: model.AnalysisStatusPending})

	bus := eventbus.NewBus()
	NewAnalysisEventSubscriber(repo).Register(bus)

	if err := bus.Publish(context.Background(), eventbus.AnalysisEvent{
		Type:       eventbus.AnalysisEventStarted,
		AnalysisID: "a-1",
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	job := repo.jobs["a-1"]
	if job.Status != model.AnalysisStatusProcessing {
		t.Fatalf("expected processing, got %s", job.Status)
	}
	if job.StartedAt == nil {
		t.Fatal("expected started_at to be set")
	}
}

func TestCompletedEventMirrorsTerminalState(t *testing.T) {
	repo := newFakeJobRepo()
	repo.Create(&model.AnalysisJob{AnalysisID: "a-2", Status: model.AnalysisStatusProcessing})

	bus := eventbus.NewBus()
	NewAnalysisEventSubscriber(repo).Register(bus)

	if err := bus.Publish(context.Background(), eventbus.AnalysisEvent{
		Type:            eventbus.AnalysisEventCompleted,
		AnalysisID:      "a-2",
		FailedAnalyzers: []string{"uml"},
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	job := repo.jobs["a-2"]
	if job.Status != model.AnalysisStatusCompleted || job.Progress != 100 {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.FailedAnalyzers != "uml" {
		t.Fatalf("expected failed analyzers uml, got %q", job.FailedAnalyzers)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
}

func TestFailedEventRecordsError(t *testing.T) {
	repo := newFakeJobRepo()
	repo.Create(&model.AnalysisJob{AnalysisID: "a-3", Status: model.AnalysisStatusProcessing})

	bus := eventbus.NewBus()
	NewAnalysisEventSubscriber(repo).Register(bus)

	bus.Publish(context.Background(), eventbus.AnalysisEvent{
		Type:       eventbus.AnalysisEventFailed,
		AnalysisID: "a-3",
		ErrorMsg:   "fetch failed",
	})

	job := repo.jobs["a-3"]
	if job.Status != model.AnalysisStatusFailed || job.ErrorMsg != "fetch failed" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestTerminalEventForUnknownJobReturnsError(t *testing.T) {
	bus := eventbus.NewBus()
	NewAnalysisEventSubscriber(newFakeJobRepo()).Register(bus)

	err := bus.Publish(context.Background(), eventbus.AnalysisEvent{
		Type:       eventbus.AnalysisEventCompleted,
		AnalysisID: "missing",
	})
	if err == nil {
		t.Fatal("expected error for unknown job")
	}
}
