package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dkhalitov/linkcut/pkg/base62"
)

// Кастомный код: буквы, цифры, дефис и подчёркивание, 3-32 символа.
var customCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// IDSource выдаёт строго возрастающие уникальные идентификаторы.
// Единственная точка уникальности для сгенерированных кодов — внешний
// источник (sequence в БД), никогда не локальный счётчик: иначе два
// процесса могли бы выдать один и тот же код.
type IDSource interface {
	NextID(ctx context.Context) (uint64, error)
}

// Allocator превращает идентификаторы из IDSource в короткие base62-коды
// и проверяет формат пользовательских кодов.
type Allocator struct {
	ids IDSource
}

func NewAllocator(ids IDSource) *Allocator {
	return &Allocator{ids: ids}
}

// Allocate выдаёт следующий сгенерированный код. Коды строго возрастают
// вместе с идентификаторами, поэтому коллизии между процессами исключены
// без какой-либо координации, кроме самого источника.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	id, err := a.ids.NextID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to allocate code: %w", err)
	}
	return base62.Encode(id), nil
}

// DecodeCode возвращает идентификатор, из которого был получен
// сгенерированный код. Используется только для диагностики.
func (a *Allocator) DecodeCode(code string) (uint64, error) {
	return base62.Decode(code)
}

// ValidateCustomCode проверяет формат пользовательского кода.
// Сама резервация кода — это вставка в хранилище: уникальный индекс
// является арбитром, предварительная проверка существования не нужна.
func ValidateCustomCode(code string) error {
	if !customCodePattern.MatchString(code) {
		return ErrInvalidCode
	}
	return nil
}
