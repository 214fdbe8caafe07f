// Package limiter реализует распределённое ограничение частоты запросов
// по фиксированному окну. Счётчики живут во внешнем хранилище, общем для
// всех инстансов: локальный подсчёт при горизонтальном масштабировании
// не ограничивает ничего.
package limiter

import (
	"context"
	"fmt"
	"time"
)

// CounterStore — атомарный счётчик с потолком и временем жизни окна.
// Инкремент-и-проверка обязан быть атомарным на стороне хранилища.
type CounterStore interface {
	// Incr увеличивает счётчик key, создавая его с TTL окна, и возвращает
	// значение после инкремента. Достигнув limit, счётчик больше не растёт
	// (никакого неограниченного накопления), а Incr возвращает limit+1.
	Incr(ctx context.Context, key string, limit int64, window time.Duration) (int64, error)
}

// FixedWindow ограничивает число запросов на identity в пределах окна.
// Ключ счётчика включает индекс окна: новое окно считается с нуля строго
// после истечения длительности предыдущего. Пограничный случай фиксированного
// окна (всплеск на стыке двух окон до 2x лимита) — осознанный компромисс.
type FixedWindow struct {
	store  CounterStore
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewFixedWindow(store CounterStore, limit int64, window time.Duration) *FixedWindow {
	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// TryAcquire сообщает, укладывается ли запрос identity в лимит текущего
// окна. Ошибка хранилища возвращается как есть: решать, открываться или
// закрываться при сбое, должен вызывающий.
func (l *FixedWindow) TryAcquire(ctx context.Context, identity string) (bool, error) {
	idx := l.now().UnixNano() / int64(l.window)
	key := fmt.Sprintf("ratelimit:%s:%d", identity, idx)

	count, err := l.store.Incr(ctx, key, l.limit, l.window)
	if err != nil {
		return false, fmt.Errorf("rate limit counter failed: %w", err)
	}

	return count <= l.limit, nil
}
