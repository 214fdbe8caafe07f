package service

import (
	"context"
	"sync"
	"time"

	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/repository"
	"go.uber.org/zap"
)

// Константы worker pool
const (
	defaultWorkerCount   = 3    // Количество воркеров
	defaultChannelBuffer = 1000 // Размер буфера канала
	clickWriteRetries    = 3    // Максимальное количество попыток записи
)

// ClickProcessor асинхронно обрабатывает события кликов: пишет событие и
// инкрементирует счётчик записи. Реализует ClickSink.
type ClickProcessor interface {
	ClickSink
	Start()
	Stop()
}

// clickProcessor реализация процессора кликов с использованием Worker Pool
type clickProcessor struct {
	clickRepo    repository.ClickRepository
	linkRepo     repository.LinkRepository
	logger       *zap.Logger
	clickChannel chan *models.ClickEvent // Канал для событий кликов
	workerCount  int
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewClickProcessor создаёт новый экземпляр процессора кликов
func NewClickProcessor(
	clickRepo repository.ClickRepository,
	linkRepo repository.LinkRepository,
	logger *zap.Logger,
) ClickProcessor {
	return &clickProcessor{
		clickRepo:    clickRepo,
		linkRepo:     linkRepo,
		logger:       logger,
		clickChannel: make(chan *models.ClickEvent, defaultChannelBuffer),
		workerCount:  defaultWorkerCount,
	}
}

// Start запускает worker pool
func (p *clickProcessor) Start() {
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.logger.Info("Запуск воркеров процессора кликов", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop корректно останавливает worker pool
func (p *clickProcessor) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("Процессор кликов остановлен")
}

// worker обрабатывает события кликов из канала
func (p *clickProcessor) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Воркер кликов остановлен", zap.Int("id", id))
			return

		case event, ok := <-p.clickChannel:
			if !ok {
				return
			}
			p.processClick(event)
		}
	}
}

// processClick обрабатывает одно событие клика
func (p *clickProcessor) processClick(event *models.ClickEvent) {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()

	linkID, err := p.linkRepo.GetLinkIDByShortCode(ctx, event.ShortCode)
	if err != nil {
		p.logger.Warn("Не удалось получить ID ссылки для клика",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
		return
	}

	// Инкремент счётчика: потеря или переупорядочивание при сбое
	// допустимы, это счётчик, а не журнал
	if err := p.linkRepo.IncrementClicks(ctx, event.ShortCode); err != nil {
		p.logger.Warn("Не удалось инкрементировать счётчик кликов",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
	}

	click := &models.Click{
		LinkID:    linkID,
		ShortCode: event.ShortCode,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Referer:   event.Referer,
		ClickedAt: event.ClickedAt,
	}

	if err := p.clickRepo.RecordClickWithRetry(ctx, click, clickWriteRetries); err != nil {
		p.logger.Error("Не удалось записать клик после всех попыток",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
	}
}

// RecordClick отправляет событие клика в worker pool (неблокирующая операция)
func (p *clickProcessor) RecordClick(ctx context.Context, event *models.ClickEvent) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.clickChannel <- event:
		return nil
	default:
		// Канал заполнен: событие теряем, запрос не блокируем
		p.logger.Warn("Буфер канала кликов заполнен, событие потеряно",
			zap.String("short_code", event.ShortCode),
		)
		return nil
	}
}
