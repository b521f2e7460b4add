// Package service provides business logic for the estimation rules store:
// load-with-fallback, validated saves, reset, and best-effort change history.
package service

import (
	"bytes"
	"context"
	"encoding/json"

	"leadquote_backend/internal/rules/domain"
	"leadquote_backend/internal/rules/repository"
	"leadquote_backend/platform/apperr"
	"leadquote_backend/platform/logger"
	"leadquote_backend/platform/validator"
)

// resetSection labels the full-configuration snapshot recorded on reset.
const resetSection = "all"

// CacheInvalidator clears locally cached configuration snapshots. The rules
// cache implements this; Save and Reset call it synchronously so an admin
// write takes effect on the next read instead of after a TTL window.
type CacheInvalidator interface {
	Invalidate()
}

// InvalidationBroadcaster fans a cache invalidation out to other running
// instances. Broadcast failures degrade to TTL-eventual consistency and must
// never fail the admin write.
type InvalidationBroadcaster interface {
	Broadcast(ctx context.Context) error
}

// Service is the single source of truth for the active rules configuration.
type Service struct {
	repo            repository.Repository
	val             *validator.Validator
	log             *logger.Logger
	historyPageSize int
	invalidator     CacheInvalidator
	broadcaster     InvalidationBroadcaster
}

// New creates a new rules service.
func New(repo repository.Repository, val *validator.Validator, log *logger.Logger, historyPageSize int) *Service {
	if historyPageSize <= 0 {
		historyPageSize = 20
	}
	return &Service{
		repo:            repo,
		val:             val,
		log:             log,
		historyPageSize: historyPageSize,
	}
}

// AttachInvalidator wires the cache that must be cleared on save/reset.
func (s *Service) AttachInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

// AttachBroadcaster wires cross-instance invalidation fan-out.
func (s *Service) AttachBroadcaster(b InvalidationBroadcaster) {
	s.broadcaster = b
}

// Load returns the active configuration: the stored override deep-merged over
// compiled-in defaults. Load never fails; any storage or decode problem is
// logged and the defaults are returned untouched.
func (s *Service) Load(ctx context.Context) domain.Configuration {
	payload, err := s.repo.GetConfig(ctx)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			// Normal state: no override has been saved yet.
			return domain.Defaults()
		}
		s.log.ConfigFallback("store read failed", err)
		return domain.Defaults()
	}

	cfg, err := domain.MergeWithDefaults(payload)
	if err != nil {
		s.log.ConfigFallback("stored override malformed", err)
		return domain.Defaults()
	}
	return cfg
}

// Save validates and persists the full configuration as the single active
// override, records which sections changed, and invalidates caches.
// Persistence failures are surfaced to the caller; history failures are not.
func (s *Service) Save(ctx context.Context, cfg domain.Configuration, description string) error {
	if err := domain.Validate(s.val, cfg); err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err).WithOp("rules.save")
	}

	old := s.Load(ctx)

	payload, err := json.Marshal(cfg)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to encode rules configuration", err).WithOp("rules.save")
	}

	if err := s.repo.UpsertConfig(ctx, payload); err != nil {
		s.log.DatabaseError("rules.save", err)
		return apperr.Wrap(apperr.KindInternal, "failed to persist rules configuration", err).WithOp("rules.save")
	}

	changed := s.recordChangedSections(ctx, old, cfg, description)
	s.notifyInvalidation(ctx)
	s.log.RulesUpdated("save", changed)

	return nil
}

// Reset deletes the active override so Load reverts to compiled-in defaults,
// and records a single history entry whose new value is null.
func (s *Service) Reset(ctx context.Context, description string) error {
	old := s.Load(ctx)

	if err := s.repo.DeleteConfig(ctx); err != nil {
		s.log.DatabaseError("rules.reset", err)
		return apperr.Wrap(apperr.KindInternal, "failed to reset rules configuration", err).WithOp("rules.reset")
	}

	oldJSON, err := json.Marshal(old)
	if err != nil {
		oldJSON = nil
	}
	s.LogChange(ctx, resetSection, oldJSON, nil, description)
	s.notifyInvalidation(ctx)
	s.log.RulesUpdated("reset", []string{resetSection})

	return nil
}

// LogChange appends one change record. Appending is best-effort: an audit-log
// outage must never block a pricing update, so failures are logged and
// swallowed.
func (s *Service) LogChange(ctx context.Context, section string, oldValue, newValue json.RawMessage, description string) {
	err := s.repo.AppendChange(ctx, repository.AppendChangeParams{
		Section:     section,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
	})
	if err != nil {
		s.log.AuditWriteFailed(section, err)
	}
}

// History returns change records most-recent-first. A non-positive limit
// selects the configured page size.
func (s *Service) History(ctx context.Context, limit int) ([]repository.ChangeRecord, error) {
	if limit <= 0 {
		limit = s.historyPageSize
	}
	records, err := s.repo.ListChanges(ctx, limit)
	if err != nil {
		s.log.DatabaseError("rules.history", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read rules history", err).WithOp("rules.history")
	}
	return records, nil
}

// recordChangedSections diffs the two configurations per top-level section
// and appends one change record per section that actually changed. Returns
// the changed section names.
func (s *Service) recordChangedSections(ctx context.Context, old, updated domain.Configuration, description string) []string {
	oldTree := sectionTree(old)
	newTree := sectionTree(updated)

	var changed []string
	for _, section := range domain.Sections() {
		if bytes.Equal(oldTree[section], newTree[section]) {
			continue
		}
		changed = append(changed, section)
		s.LogChange(ctx, section, oldTree[section], newTree[section], description)
	}
	return changed
}

// sectionTree re-encodes a configuration as per-section JSON snapshots.
func sectionTree(cfg domain.Configuration) map[string]json.RawMessage {
	full, err := json.Marshal(cfg)
	if err != nil {
		return nil
	}
	var tree map[string]json.RawMessage
	if err := json.Unmarshal(full, &tree); err != nil {
		return nil
	}
	return tree
}

func (s *Service) notifyInvalidation(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	if s.broadcaster != nil {
		if err := s.broadcaster.Broadcast(ctx); err != nil {
			s.log.Warn("rules invalidation broadcast failed", "error", err)
		}
	}
}
