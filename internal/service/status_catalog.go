package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/pkg/workflow"
)

const statusCatalogKey = "hackdesk:statuses"

// StatusCatalog serves the legal status label set. The set is configuration
// owned by the server, cached in Redis so operators can re-seed it without a
// deploy; clients must never hardcode it.
type StatusCatalog interface {
	Statuses(ctx context.Context) ([]string, error)
}

type statusCatalog struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewStatusCatalog constructs a redis-backed status catalog. A nil client
// degrades to the canonical default set.
func NewStatusCatalog(redisClient *redis.Client, ttl time.Duration, logger zerolog.Logger) StatusCatalog {
	return &statusCatalog{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.With().Str("component", "status_catalog").Logger(),
	}
}

func (s *statusCatalog) Statuses(ctx context.Context) ([]string, error) {
	if s.redis == nil {
		return workflow.DefaultStatuses(), nil
	}

	cached, err := s.redis.Get(ctx, statusCatalogKey).Result()
	if err == nil {
		var statuses []string
		if unmarshalErr := json.Unmarshal([]byte(cached), &statuses); unmarshalErr == nil && len(statuses) > 0 {
			return statuses, nil
		}
		// Corrupt cache entries are replaced with the seed below.
	}

	statuses := workflow.DefaultStatuses()
	payload, err := json.Marshal(statuses)
	if err != nil {
		return statuses, nil
	}

	if err := s.redis.Set(ctx, statusCatalogKey, payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to seed status catalog cache")
	}

	return statuses, nil
}
