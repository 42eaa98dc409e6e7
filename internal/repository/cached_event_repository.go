package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
	"github.com/HexHunters/Tickr-sub000/pkg/redis"
)

const (
	// Cache key prefixes
	eventDetailKeyPrefix = "event:detail:"
	eventListKeyPrefix   = "event:list:"

	// Default TTL for event caches
	eventCacheTTL = 5 * time.Minute
)

// CachedEventRepository wraps EventRepository with Redis caching. Cached
// entries hold the aggregate's persisted state and are rehydrated on read.
type CachedEventRepository struct {
	repo  EventRepository
	cache *redis.Client
}

// NewCachedEventRepository creates a new CachedEventRepository
func NewCachedEventRepository(repo EventRepository, cache *redis.Client) *CachedEventRepository {
	return &CachedEventRepository{
		repo:  repo,
		cache: cache,
	}
}

// Save persists the aggregate and invalidates its caches
func (r *CachedEventRepository) Save(ctx context.Context, event *domain.Event, outbox []*domain.OutboxMessage) error {
	if err := r.repo.Save(ctx, event, outbox); err != nil {
		return err
	}
	r.invalidateEventCaches(ctx, event.ID())
	return nil
}

// FindByID retrieves an event by ID with caching
func (r *CachedEventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	cacheKey := eventDetailKeyPrefix + id
	cached, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		var state domain.EventState
		if err := json.Unmarshal([]byte(cached), &state); err == nil {
			return domain.RehydrateEvent(state), nil
		}
	}

	event, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	r.cacheEvent(ctx, cacheKey, event)
	return event, nil
}

// List lists events with filters and pagination. Only simple queries are
// cached; organizer-scoped queries bypass the cache.
func (r *CachedEventRepository) List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	if filter != nil && filter.OrganizerID != "" {
		return r.repo.List(ctx, filter, limit, offset)
	}

	status, category, city := "", "", ""
	if filter != nil {
		status, category, city = filter.Status, filter.Category, filter.City
	}
	cacheKey := fmt.Sprintf("%s%s:%s:%s:%d:%d", eventListKeyPrefix, status, category, city, limit, offset)

	cached, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		var result cachedEventList
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			events := make([]*domain.Event, 0, len(result.Events))
			for _, s := range result.Events {
				events = append(events, domain.RehydrateEvent(s))
			}
			return events, result.Total, nil
		}
	}

	events, total, err := r.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	r.cacheEventList(ctx, cacheKey, events, total)
	return events, total, nil
}

// ListEndedPublished bypasses the cache; the completion worker must see
// fresh rows.
func (r *CachedEventRepository) ListEndedPublished(ctx context.Context, limit int) ([]*domain.Event, error) {
	return r.repo.ListEndedPublished(ctx, limit)
}

// --- Helper functions ---

type cachedEventList struct {
	Events []domain.EventState `json:"events"`
	Total  int                 `json:"total"`
}

func (r *CachedEventRepository) cacheEvent(ctx context.Context, key string, event *domain.Event) {
	data, err := json.Marshal(event.State())
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(data), eventCacheTTL)
}

func (r *CachedEventRepository) cacheEventList(ctx context.Context, key string, events []*domain.Event, total int) {
	list := cachedEventList{Total: total, Events: make([]domain.EventState, 0, len(events))}
	for _, e := range events {
		list.Events = append(list.Events, e.State())
	}
	data, err := json.Marshal(list)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(data), eventCacheTTL)
}

func (r *CachedEventRepository) invalidateEventCaches(ctx context.Context, id string) {
	r.cache.Del(ctx, eventDetailKeyPrefix+id)

	iter := r.cache.Client().Scan(ctx, 0, eventListKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.cache.Del(ctx, iter.Val())
	}
}

// Ensure CachedEventRepository implements EventRepository
var _ EventRepository = (*CachedEventRepository)(nil)
