package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dkhalitov/linkcut/internal/cache"
	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/repository"
	"go.uber.org/zap"
)

// Ошибки сервиса
var (
	ErrInvalidURL  = errors.New("невалидный URL")
	ErrInvalidCode = errors.New("невалидный кастомный код")
)

// Константы сервиса
const (
	maxTTL           = 30 * 24 * time.Hour
	maxAllocAttempts = 3 // попытки генерации при конфликте с занятым кодом
)

// ClickSink принимает событие клика. Вызов не должен блокировать и может
// терять события — счётчик кликов eventually consistent, не журнал.
type ClickSink interface {
	RecordClick(ctx context.Context, event *models.ClickEvent) error
}

// LinkService интерфейс сервиса ссылок
type LinkService interface {
	CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error)
	Resolve(ctx context.Context, code string, event *models.ClickEvent) (string, error)
	GetStats(ctx context.Context, code string) (*models.LinkStats, error)
}

// linkService реализация сервиса ссылок
type linkService struct {
	linkRepo  repository.LinkRepository
	cache     *cache.TwoTier
	allocator *Allocator
	clicks    ClickSink
	logger    *zap.Logger
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(
	linkRepo repository.LinkRepository,
	cache *cache.TwoTier,
	allocator *Allocator,
	clicks ClickSink,
	logger *zap.Logger,
) LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		cache:     cache,
		allocator: allocator,
		clicks:    clicks,
		logger:    logger,
	}
}

// CreateLink создаёт новую короткую ссылку
func (s *linkService) CreateLink(ctx context.Context, input *models.CreateLinkInput) (*models.Link, error) {
	// Валидация до каких-либо аллокаций: отказ не имеет побочных эффектов
	if err := validateURL(input.OriginalURL); err != nil {
		return nil, err
	}

	// Расчёт времени жизни
	var expiresAt *time.Time
	if input.ExpiresIn != nil && *input.ExpiresIn > 0 {
		ttl := time.Duration(*input.ExpiresIn) * time.Minute
		if ttl > maxTTL {
			ttl = maxTTL
		}
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	link := &models.Link{
		OriginalURL: input.OriginalURL,
		OwnerID:     input.OwnerID,
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}

	if input.CustomCode != nil && *input.CustomCode != "" {
		// Кастомный код: формат проверяем здесь, занятость решает
		// уникальный индекс хранилища. Проигравший из двух конкурентных
		// запросов получает ErrCodeExists, перезаписи не бывает.
		if err := ValidateCustomCode(*input.CustomCode); err != nil {
			return nil, err
		}
		link.ShortCode = *input.CustomCode

		if err := s.linkRepo.Create(ctx, link); err != nil {
			return nil, err
		}
	} else {
		// Сгенерированный код: sequence не выдаёт один id дважды, но
		// кастомный код мог заранее занять будущее значение. Тогда
		// берём следующий id — кодов от этого не убудет.
		if err := s.createGenerated(ctx, link); err != nil {
			return nil, err
		}
	}

	// Write-through: редиректы читают сразу после создания,
	// тёплый кэш выгоднее инвалидации
	s.cache.Set(ctx, link)

	return link, nil
}

func (s *linkService) createGenerated(ctx context.Context, link *models.Link) error {
	for attempt := 0; attempt < maxAllocAttempts; attempt++ {
		code, err := s.allocator.Allocate(ctx)
		if err != nil {
			return err
		}
		link.ShortCode = code

		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCodeExists) {
			return err
		}

		s.logger.Warn("generated code already reserved, retrying with next id",
			zap.String("code", code),
		)
	}
	return fmt.Errorf("failed to allocate unique code after %d attempts: %w", maxAllocAttempts, repository.ErrCodeExists)
}

// Resolve разрешает короткий код в оригинальный URL: локальный кэш →
// Redis → хранилище. Истечение проверяется на каждом пути по живым часам.
// Мёртвая или отсутствующая запись — единый ErrLinkNotFound: снаружи
// нельзя отличить «не существовало» от «истекло».
func (s *linkService) Resolve(ctx context.Context, code string, event *models.ClickEvent) (string, error) {
	now := time.Now()

	if link, ok := s.cache.Get(ctx, code); ok {
		if IsLive(link, now) {
			s.recordClick(ctx, code, event)
			return link.OriginalURL, nil
		}
		// Кэш хранит мёртвую запись — чистим оба уровня в фоне,
		// ответ этого не ждёт
		go s.invalidateStale(code)
	}

	// Cache-aside: промах обоих уровней закрывает обращение к хранилищу
	link, err := s.linkRepo.GetByShortCode(ctx, code)
	if err != nil {
		return "", err
	}

	if !IsLive(link, now) {
		// Мёртвые записи в кэш не кладём — незачем прогревать мусор
		return "", repository.ErrLinkNotFound
	}

	s.cache.Set(ctx, link)
	s.recordClick(ctx, code, event)

	return link.OriginalURL, nil
}

// GetStats возвращает текущее значение счётчика кликов записи.
// Счётчик eventually consistent и может отставать под нагрузкой.
func (s *linkService) GetStats(ctx context.Context, code string) (*models.LinkStats, error) {
	link, err := s.linkRepo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !IsLive(link, time.Now()) {
		return nil, repository.ErrLinkNotFound
	}

	return &models.LinkStats{
		ShortCode: link.ShortCode,
		Clicks:    link.Clicks,
	}, nil
}

// recordClick отдаёт событие в click-хук. Fire-and-forget: отказ хука
// никогда не ломает и не задерживает ответ редиректа.
func (s *linkService) recordClick(ctx context.Context, code string, event *models.ClickEvent) {
	if event == nil {
		return
	}
	event.ShortCode = code
	if event.ClickedAt.IsZero() {
		event.ClickedAt = time.Now()
	}
	if err := s.clicks.RecordClick(ctx, event); err != nil {
		s.logger.Debug("click event dropped", zap.String("code", code), zap.Error(err))
	}
}

// invalidateStale асинхронно выбрасывает протухшую мёртвую запись
// из обоих уровней кэша (самолечение кэша).
func (s *linkService) invalidateStale(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.Invalidate(ctx, code)
}

// validateURL требует абсолютный http/https URL с непустым хостом
func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
