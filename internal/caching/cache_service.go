package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"postewatch/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Dashboard snapshot caching, keyed (tenant, date)
	GetDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.DashboardSnapshot, error)
	SetDashboardSnapshot(ctx context.Context, snapshot *models.DashboardSnapshot, ttl time.Duration) error
	DeleteDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) error

	// Attendance summary caching, keyed (tenant, date)
	GetAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.AttendanceSummary, error)
	SetAttendanceSummary(ctx context.Context, summary *models.AttendanceSummary, ttl time.Duration) error
	DeleteAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	// Rate limiting, keyed (tenant, window) with expiry
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as a bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func dashboardKey(tenantID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("postewatch:dashboard:%s:%s", tenantID.String(), date.Format("2006-01-02"))
}

func summaryKey(tenantID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("postewatch:summary:%s:%s", tenantID.String(), date.Format("2006-01-02"))
}

func (r *redisCacheService) GetDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.DashboardSnapshot, error) {
	data, err := r.client.Get(ctx, dashboardKey(tenantID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var snapshot models.DashboardSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *redisCacheService) SetDashboardSnapshot(ctx context.Context, snapshot *models.DashboardSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardKey(snapshot.TenantID, snapshot.Date), data, ttl).Err()
}

func (r *redisCacheService) DeleteDashboardSnapshot(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	return r.client.Del(ctx, dashboardKey(tenantID, date)).Err()
}

func (r *redisCacheService) GetAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) (*models.AttendanceSummary, error) {
	data, err := r.client.Get(ctx, summaryKey(tenantID, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.AttendanceSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetAttendanceSummary(ctx context.Context, summary *models.AttendanceSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, summaryKey(summary.TenantID, summary.Date), data, ttl).Err()
}

func (r *redisCacheService) DeleteAttendanceSummary(ctx context.Context, tenantID uuid.UUID, date time.Time) error {
	return r.client.Del(ctx, summaryKey(tenantID, date)).Err()
}

func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("postewatch:*:%s:*", tenantID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("postewatch:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request in the window
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
