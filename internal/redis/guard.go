package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-booths/internal/logger"
	"ms-booths/internal/models"
)

const keyPrefix = "order_dedup:"

// Guard rejects identical order submissions that arrive within TTL of each
// other. A submission is identified by booth, student number and the
// requested items regardless of their order.
type Guard struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewGuard(client *redis.Client, ttl time.Duration, log *logger.Logger) *Guard {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Guard{Client: client, TTL: ttl, Logger: log}
}

// Fingerprint is the dedup key for req.
func Fingerprint(req models.OrderRequest) string {
	parts := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Qty <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", strings.TrimSpace(it.MenuID), it.Qty))
	}
	sort.Strings(parts)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", strings.TrimSpace(req.BoothID), strings.TrimSpace(req.StudentNo), strings.Join(parts, ","))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Acquire claims the fingerprint of req. It returns false when the same
// submission is already in flight or was accepted within TTL.
func (g *Guard) Acquire(ctx context.Context, req models.OrderRequest) (string, bool, error) {
	key := Fingerprint(req)
	ok, err := g.Client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), g.TTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok && g.Logger != nil {
		g.Logger.Debug("REDIS", fmt.Sprintf("duplicate submission for booth %s student %s", req.BoothID, req.StudentNo))
	}
	return key, ok, nil
}

// Release frees a claimed fingerprint, used when the order was rejected so the
// customer can fix the request and retry right away.
func (g *Guard) Release(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	err := g.Client.Del(ctx, key).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (g *Guard) Ping(ctx context.Context) error {
	return g.Client.Ping(ctx).Err()
}

func (g *Guard) Close() error {
	return g.Client.Close()
}
