package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"leadquote_backend/internal/rules/domain"
	"leadquote_backend/internal/rules/repository"
	"leadquote_backend/platform/apperr"
	"leadquote_backend/platform/logger"
	"leadquote_backend/platform/validator"
)

// fakeRepo is an in-memory repository with per-operation error injection.
type fakeRepo struct {
	config  []byte
	changes []repository.ChangeRecord

	getErr    error
	upsertErr error
	deleteErr error
	appendErr error
	listErr   error
}

func (f *fakeRepo) GetConfig(ctx context.Context) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.config == nil {
		return nil, apperr.NotFound("no active rules configuration")
	}
	return f.config, nil
}

func (f *fakeRepo) UpsertConfig(ctx context.Context, payload []byte) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.config = payload
	return nil
}

func (f *fakeRepo) DeleteConfig(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.config = nil
	return nil
}

func (f *fakeRepo) AppendChange(ctx context.Context, params repository.AppendChangeParams) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.changes = append(f.changes, repository.ChangeRecord{
		ID:          uuid.New(),
		Section:     params.Section,
		OldValue:    params.OldValue,
		NewValue:    params.NewValue,
		Description: params.Description,
	})
	return nil
}

func (f *fakeRepo) ListChanges(ctx context.Context, limit int) ([]repository.ChangeRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > len(f.changes) {
		limit = len(f.changes)
	}
	out := make([]repository.ChangeRecord, 0, limit)
	for i := len(f.changes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.changes[i])
	}
	return out, nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

func newTestService(repo repository.Repository) *Service {
	return New(repo, validator.New(), logger.New("development"), 20)
}

func TestLoad_NoOverrideReturnsDefaults(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	cfg := svc.Load(context.Background())
	if !reflect.DeepEqual(cfg, domain.Defaults()) {
		t.Fatal("expected compiled-in defaults when no override is stored")
	}
}

func TestLoad_StoreFailureFallsBackToDefaults(t *testing.T) {
	svc := newTestService(&fakeRepo{getErr: errors.New("connection refused")})

	cfg := svc.Load(context.Background())
	if !reflect.DeepEqual(cfg, domain.Defaults()) {
		t.Fatal("expected defaults when the store is unreachable")
	}
}

func TestLoad_MalformedOverrideFallsBackToDefaults(t *testing.T) {
	svc := newTestService(&fakeRepo{config: []byte(`{"modifiers": [`)})

	cfg := svc.Load(context.Background())
	if !reflect.DeepEqual(cfg, domain.Defaults()) {
		t.Fatal("expected defaults when the stored override cannot be decoded")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	cfg := domain.Defaults()
	cfg.QualificationThresholds = domain.QualificationThresholds{Hot: 75, Warm: 55, Cold: 35}
	cfg.Modifiers.Urgent = 1.2

	if err := svc.Save(ctx, cfg, "seasonal tuning"); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := svc.Load(ctx)
	if !reflect.DeepEqual(loaded, cfg) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", cfg, loaded)
	}
}

func TestSave_RejectsInvalidConfiguration(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	cfg := domain.Defaults()
	cfg.QualificationThresholds.Hot = 10 // below warm

	err := svc.Save(context.Background(), cfg, "bad")
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if repo.config != nil {
		t.Fatal("invalid configuration must not be persisted")
	}
	if len(repo.changes) != 0 {
		t.Fatal("invalid configuration must not produce history records")
	}
}

func TestSave_PersistenceFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{upsertErr: errors.New("disk full")}
	svc := newTestService(repo)

	err := svc.Save(context.Background(), domain.Defaults(), "noop")
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal kind, got %v", err)
	}
}

func TestSave_RecordsOnlyChangedSections(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	cfg := domain.Defaults()
	cfg.Modifiers.Urgent = 1.4
	cfg.QualificationThresholds.Hot = 80

	if err := svc.Save(ctx, cfg, "tighten hot tier"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(repo.changes) != 2 {
		t.Fatalf("expected 2 change records, got %d", len(repo.changes))
	}
	sections := []string{repo.changes[0].Section, repo.changes[1].Section}
	if sections[0] != "modifiers" || sections[1] != "qualificationThresholds" {
		t.Fatalf("unexpected sections: %v", sections)
	}
	for _, rec := range repo.changes {
		if rec.Description != "tighten hot tier" {
			t.Fatalf("expected description on every record, got %q", rec.Description)
		}
		if len(rec.OldValue) == 0 || len(rec.NewValue) == 0 {
			t.Fatal("expected both old and new snapshots on a save record")
		}
	}
}

func TestSave_IdenticalConfigurationRecordsNothing(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Save(ctx, domain.Defaults(), "no change"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(repo.changes) != 0 {
		t.Fatalf("expected no change records for an identical save, got %d", len(repo.changes))
	}
}

func TestSave_HistoryFailureDoesNotFailSave(t *testing.T) {
	repo := &fakeRepo{appendErr: errors.New("history table locked")}
	svc := newTestService(repo)

	cfg := domain.Defaults()
	cfg.Modifiers.Urgent = 1.35

	if err := svc.Save(context.Background(), cfg, "history down"); err != nil {
		t.Fatalf("save must succeed despite history failure, got %v", err)
	}
	if repo.config == nil {
		t.Fatal("configuration must still be persisted")
	}
}

func TestSaveInvalidatesCache(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	inv := &countingInvalidator{}
	svc.AttachInvalidator(inv)

	cfg := domain.Defaults()
	cfg.LeadScoring.BaseScore = 35

	if err := svc.Save(context.Background(), cfg, "raise floor"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if inv.calls != 1 {
		t.Fatalf("expected one invalidation after save, got %d", inv.calls)
	}
}

func TestReset_RevertsToDefaultsAndRecordsSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	inv := &countingInvalidator{}
	svc.AttachInvalidator(inv)
	ctx := context.Background()

	cfg := domain.Defaults()
	cfg.LeadScoring.UrgencyBonus = 12
	if err := svc.Save(ctx, cfg, "bump urgency"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.Reset(ctx, "back to stock"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if !reflect.DeepEqual(svc.Load(ctx), domain.Defaults()) {
		t.Fatal("expected defaults after reset")
	}

	last := repo.changes[len(repo.changes)-1]
	if last.Section != "all" {
		t.Fatalf("expected full-snapshot section on reset, got %q", last.Section)
	}
	if last.NewValue != nil {
		t.Fatalf("expected nil new value on reset record, got %s", last.NewValue)
	}
	var snapshot domain.Configuration
	if err := json.Unmarshal(last.OldValue, &snapshot); err != nil {
		t.Fatalf("reset old value must hold the prior configuration: %v", err)
	}
	if snapshot.LeadScoring.UrgencyBonus != 12 {
		t.Fatalf("expected prior configuration in snapshot, got bonus %d", snapshot.LeadScoring.UrgencyBonus)
	}
	if inv.calls != 2 {
		t.Fatalf("expected invalidation on save and reset, got %d", inv.calls)
	}
}

func TestReset_DeleteFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{deleteErr: errors.New("timeout")}
	svc := newTestService(repo)

	err := svc.Reset(context.Background(), "nope")
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal kind, got %v", err)
	}
}

func TestHistory_NonPositiveLimitUsesPageSize(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, validator.New(), logger.New("development"), 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.LogChange(ctx, "modifiers", nil, json.RawMessage(`{}`), "bulk")
	}

	records, err := svc.History(ctx, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected page size 3, got %d", len(records))
	}
}

func TestHistory_StoreFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("broken")}
	svc := newTestService(repo)

	_, err := svc.History(context.Background(), 10)
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal kind, got %v", err)
	}
}
