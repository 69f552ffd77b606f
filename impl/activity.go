package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/strandmesh/strand/state"
)

// ActivityTracker remembers when each neighbour was last heard from. An
// entry expiring means the neighbour has gone silent for a full TTL, which
// is worth a warning but never a state change: reachability is only ever
// decided by the graph.
type ActivityTracker struct {
	cache *ttlcache.Cache[state.NodeId, time.Time]
}

func NewActivityTracker(ttl time.Duration, log *slog.Logger) *ActivityTracker {
	cache := ttlcache.New[state.NodeId, time.Time](
		ttlcache.WithTTL[state.NodeId, time.Time](ttl),
	)
	cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[state.NodeId, time.Time]) {
		if reason == ttlcache.EvictionReasonExpired {
			log.Warn("neighbour silent", "node", item.Key(), "lastHeard", item.Value())
		}
	})
	go cache.Start()
	return &ActivityTracker{cache: cache}
}

func (a *ActivityTracker) Touch(id state.NodeId) {
	a.cache.Set(id, time.Now(), ttlcache.DefaultTTL)
}

func (a *ActivityTracker) Stop() {
	a.cache.Stop()
	a.cache.DeleteAll()
}
