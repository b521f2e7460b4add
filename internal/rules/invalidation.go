package rules

import (
	"context"

	"leadquote_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// invalidationChannel carries rules cache invalidation notices between
// instances. The payload is irrelevant; receipt alone triggers a reload.
const invalidationChannel = "estimation:rules:invalidate"

// Invalidator fans rules cache invalidations out over Redis pub/sub so an
// admin write on one instance reaches every instance immediately instead of
// after a TTL window. A Redis outage degrades to TTL-eventual consistency.
type Invalidator struct {
	rdb   *redis.Client
	cache *Cache
	log   *logger.Logger
}

// NewInvalidator creates an invalidator for the given cache.
func NewInvalidator(rdb *redis.Client, cache *Cache, log *logger.Logger) *Invalidator {
	return &Invalidator{rdb: rdb, cache: cache, log: log}
}

// Broadcast publishes an invalidation notice. The local cache is cleared by
// the rules service before this is called; Broadcast only informs peers.
func (i *Invalidator) Broadcast(ctx context.Context) error {
	return i.rdb.Publish(ctx, invalidationChannel, "reload").Err()
}

// Listen subscribes to the invalidation channel and clears the local cache
// on every notice. It runs until the context is cancelled.
func (i *Invalidator) Listen(ctx context.Context) {
	sub := i.rdb.Subscribe(ctx, invalidationChannel)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = msg
				i.cache.Invalidate()
				i.log.Debug("rules cache invalidated by broadcast")
			}
		}
	}()
}
