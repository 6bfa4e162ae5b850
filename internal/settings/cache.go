package settings

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

const idField = "id"

// Factory creates the provider object for a cache miss and returns its id.
type Factory func(ctx context.Context) (string, error)

type store interface {
	FindByKey(ctx context.Context, key string) (*models.Setting, error)
	InsertIfAbsent(ctx context.Context, key string, value types.JSONMap) error
	DeleteByID(ctx context.Context, id int64) error
}

// RemoteTier is the optional read-through layer in front of the settings table.
type RemoteTier interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SettingKey(key string) string
}

type CacheParams struct {
	Store   store
	Remote  RemoteTier
	TTL     time.Duration
	Metrics *metrics.CheckoutMetrics
	Logger  *logger.Logger
}

// Cache maps setting keys to provider object ids. The settings table is
// authoritative; Remote only short-circuits reads.
type Cache struct {
	store   store
	remote  RemoteTier
	ttl     time.Duration
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

func NewCache(params CacheParams) (*Cache, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings store required")
	}
	return &Cache{
		store:   params.Store,
		remote:  params.Remote,
		ttl:     params.TTL,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// GetOrCreate returns the id cached under key, calling create at most once per
// caller on a miss. Concurrent callers racing on the same key all return the
// id of the first committed row; a losing caller's provider object is left
// unreferenced.
func (c *Cache) GetOrCreate(ctx context.Context, key string, create Factory) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	if create == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "factory required")
	}
	kind := keyKind(key)

	if id := c.remoteGet(ctx, key); id != "" {
		c.metrics.ObserveCacheLookup(kind, true)
		return id, nil
	}

	existing, err := c.store.FindByKey(ctx, key)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setting")
	}
	if id := idOf(existing); id != "" {
		c.metrics.ObserveCacheLookup(kind, true)
		c.remoteSet(ctx, key, id)
		return id, nil
	}
	c.metrics.ObserveCacheLookup(kind, false)

	created, err := create(ctx)
	if err != nil {
		return "", err
	}
	if created == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "factory returned empty id")
	}

	// A row without a string id is replaced. Deleting by row id lets only one
	// racing caller remove it; the others then see the replacement.
	stale := existing
	for attempt := 0; attempt < 2; attempt++ {
		if stale != nil {
			if err := c.store.DeleteByID(ctx, stale.ID); err != nil {
				return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "drop malformed setting")
			}
			if c.logg != nil {
				c.logg.Warn(c.logg.WithField(ctx, "setting_key", key), "settings.cache.malformed_replaced")
			}
		}
		if err := c.store.InsertIfAbsent(ctx, key, types.JSONMap{idField: created}); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store setting")
		}
		winner, err := c.store.FindByKey(ctx, key)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload setting")
		}
		id := idOf(winner)
		if id == "" {
			stale = winner
			continue
		}
		if id != created && c.logg != nil {
			logCtx := c.logg.WithFields(ctx, map[string]any{"setting_key": key, "orphaned_id": created})
			c.logg.Info(logCtx, "settings.cache.race_lost")
		}
		c.remoteSet(ctx, key, id)
		return id, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("setting %s has no id", key))
}

// Invalidate drops keys from the remote tier.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.remote == nil || len(keys) == 0 {
		return
	}
	remoteKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		remoteKeys = append(remoteKeys, c.remote.SettingKey(key))
	}
	if err := c.remote.Del(ctx, remoteKeys...); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "settings.cache.invalidate_failed")
	}
}

func (c *Cache) remoteGet(ctx context.Context, key string) string {
	if c.remote == nil {
		return ""
	}
	val, err := c.remote.Get(ctx, c.remote.SettingKey(key))
	if err != nil {
		return ""
	}
	return val
}

func (c *Cache) remoteSet(ctx context.Context, key, id string) {
	if c.remote == nil || c.ttl <= 0 {
		return
	}
	if err := c.remote.Set(ctx, c.remote.SettingKey(key), id, jitter(c.ttl)); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "settings.cache.remote_set_failed")
	}
}

// jitter spreads expiries over ttl..1.1*ttl.
func jitter(ttl time.Duration) time.Duration {
	spread := int64(ttl / 10)
	if spread <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(spread))
}

func idOf(setting *models.Setting) string {
	if setting == nil || setting.Value == nil {
		return ""
	}
	id, _ := setting.Value[idField].(string)
	return id
}

func keyKind(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
