package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rshade/grantdesk/internal/cache"
	"github.com/rshade/grantdesk/internal/logging"
	"github.com/rshade/grantdesk/internal/model"
)

// CachedRequestService is a read-through cache in front of a RequestReader.
// Misses, expired entries, and unreadable entries fall through to next; a
// failure from next is returned unchanged and nothing is cached.
type CachedRequestService struct {
	next    RequestReader
	store   *cache.FileStore
	baseURL string
}

// NewCachedRequestService wraps next. A disabled store makes it a pass-through.
func NewCachedRequestService(next RequestReader, store *cache.FileStore, baseURL string) *CachedRequestService {
	return &CachedRequestService{next: next, store: store, baseURL: baseURL}
}

// Get serves id from cache when fresh, otherwise from next.
func (s *CachedRequestService) Get(ctx context.Context, id string) (*model.Request, error) {
	if s.store == nil || !s.store.IsEnabled() || id == "" {
		return s.next.Get(ctx, id)
	}

	log := logging.FromContext(ctx)
	key := cache.ResourceKey(s.baseURL, "requests", id)

	entry, err := s.store.Get(key)
	switch {
	case err == nil:
		var req model.Request
		if decodeErr := json.Unmarshal(entry.Data, &req); decodeErr == nil {
			log.Debug().Str("component", "service").Str("request_id", id).
				Dur("age", entry.Age()).Msg("request served from cache")
			return &req, nil
		}
	case !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrExpired):
		log.Debug().Str("component", "service").Err(err).Msg("cache read failed")
	}

	req, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(req); marshalErr == nil {
		if setErr := s.store.Set(key, data); setErr != nil {
			log.Debug().Str("component", "service").Err(setErr).Msg("cache write failed")
		}
	}
	return req, nil
}
