package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deepforge-server/internal/domain"
	"deepforge-server/pkg/logger"
)

const (
	levelKeyPrefix = "level:"
	levelIndexKey  = "level:index"
)

// LevelRepository хранит уровни в Redis тем же бинарным форматом,
// что и файловый LevelService. Ключ - "level:<session>:<depth>".
type LevelRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// RedisConfig - конфигурация репозитория уровней.
type RedisConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration
}

// Validate проверяет конфигурацию.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.New("storage: config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.New("storage: redis client cannot be nil")
	}
	return nil
}

// NewLevelRepository создает репозиторий уровней поверх Redis.
func NewLevelRepository(cfg *RedisConfig) (*LevelRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LevelRepository{client: cfg.Client, ttl: cfg.TTL}, nil
}

func levelKey(session string, depth int) string {
	return fmt.Sprintf("%s%s:%d", levelKeyPrefix, session, depth)
}

// Save сериализует уровень и кладет его под ключ сессии и глубины.
func (r *LevelRepository) Save(ctx context.Context, session string, m *domain.Map, entities []*domain.Entity) error {
	if session == "" {
		return errors.New("storage: session cannot be empty")
	}

	var buf bytes.Buffer
	if err := writeBinary(&buf, m, entities); err != nil {
		return fmt.Errorf("storage: encode level: %w", err)
	}

	key := levelKey(session, m.Depth)
	if err := r.client.Set(ctx, key, buf.Bytes(), r.ttl).Err(); err != nil {
		return fmt.Errorf("storage: save level %s: %w", key, err)
	}
	if err := r.client.SAdd(ctx, levelIndexKey, key).Err(); err != nil {
		return fmt.Errorf("storage: index level %s: %w", key, err)
	}

	logger.WithComponent("storage").
		WithField("key", key).
		WithField("bytes", buf.Len()).
		Debug("level saved to redis")
	return nil
}

// Load читает и декодирует уровень. Отсутствующий ключ - redis.Nil.
func (r *LevelRepository) Load(ctx context.Context, session string, depth int) (*domain.Map, []*domain.Entity, error) {
	key := levelKey(session, depth)
	blob, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: load level %s: %w", key, err)
	}
	return readBinary(bytes.NewReader(blob))
}

// Exists сообщает, сохранен ли уровень.
func (r *LevelRepository) Exists(ctx context.Context, session string, depth int) (bool, error) {
	n, err := r.client.Exists(ctx, levelKey(session, depth)).Result()
	if err != nil {
		return false, fmt.Errorf("storage: exists check: %w", err)
	}
	return n > 0, nil
}

// Delete удаляет уровень и его запись в индексе.
func (r *LevelRepository) Delete(ctx context.Context, session string, depth int) error {
	key := levelKey(session, depth)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("storage: delete level %s: %w", key, err)
	}
	return r.client.SRem(ctx, levelIndexKey, key).Err()
}

// ListKeys возвращает ключи всех сохраненных уровней.
func (r *LevelRepository) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := r.client.SMembers(ctx, levelIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: list levels: %w", err)
	}
	return keys, nil
}
