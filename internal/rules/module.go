package rules

import (
	"context"

	"leadquote_backend/internal/rules/repository"
	"leadquote_backend/internal/rules/service"
	"leadquote_backend/platform/config"
	"leadquote_backend/platform/logger"
	"leadquote_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the rules bounded context module.
type Module struct {
	service     *service.Service
	cache       *Cache
	repo        repository.Repository
	invalidator *Invalidator
}

// NewModule creates and initializes the rules module with all its
// dependencies. rdb may be nil, in which case invalidation stays local to
// this instance and peers converge within one cache TTL.
func NewModule(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client, val *validator.Validator, log *logger.Logger, cfg config.RulesConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, val, log, cfg.GetRulesHistoryPageSize())
	cache := NewCache(svc, cfg.GetRulesCacheTTL())
	svc.AttachInvalidator(cache)

	m := &Module{
		service: svc,
		cache:   cache,
		repo:    repo,
	}

	if rdb != nil {
		inv := NewInvalidator(rdb, cache, log)
		svc.AttachBroadcaster(inv)
		inv.Listen(ctx)
		m.invalidator = inv
	}

	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "rules"
}

// Service returns the rules service for administrator operations.
func (m *Module) Service() *service.Service {
	return m.service
}

// Cache returns the read path used by estimate/score callers.
func (m *Module) Cache() *Cache {
	return m.cache
}
