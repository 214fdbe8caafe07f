package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua-скрипт: инкремент с потолком и TTL окна одним атомарным шагом.
// Без скрипта между GET и INCR вклинился бы конкурентный запрос.
//
// KEYS[1] — ключ счётчика
// ARGV[1] — потолок
// ARGV[2] — TTL окна в миллисекундах
var incrScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if current >= limit then
    return limit + 1
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return current
`)

// RedisCounterStore хранит счётчики окон в Redis: общее состояние,
// видимое всем инстансам сервиса.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, limit int64, window time.Duration) (int64, error) {
	return incrScript.Run(ctx, s.client, []string{key}, limit, window.Milliseconds()).Int64()
}
