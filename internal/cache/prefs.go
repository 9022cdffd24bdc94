package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const counterKeyPrefix = "prefs:counter:"

// PreferenceStore keeps small per-chat settings in Redis. Losing them is
// harmless; every lookup has a default.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

// CounterCurrency returns the chat's stored counter currency, or "" when the
// chat never set one.
func (p *PreferenceStore) CounterCurrency(ctx context.Context, chatID int64) (string, error) {
	val, err := p.client.Get(ctx, counterKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (p *PreferenceStore) SetCounterCurrency(ctx context.Context, chatID int64, currency string) error {
	return p.client.Set(ctx, counterKey(chatID), currency, 0).Err()
}

func counterKey(chatID int64) string {
	return fmt.Sprintf("%s%d", counterKeyPrefix, chatID)
}
