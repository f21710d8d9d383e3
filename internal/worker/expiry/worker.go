package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAlreadyRunning возвращается при повторном запуске
var ErrAlreadyRunning = errors.New("expiry: worker already running")

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 100
)

// Config настройки обхода
type Config struct {
	TTL       time.Duration // время жизни брони в статусе pending
	Interval  time.Duration
	BatchSize int
}

// Worker периодически отменяет брони, не оплаченные за TTL
type Worker struct {
	finder  GroupFinder
	ledger  Ledger
	metrics MetricsRecorder
	logger  Logger
	config  Config

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewWorker создает новый воркер истечения броней
func NewWorker(finder GroupFinder, ledger Ledger, metrics MetricsRecorder, logger Logger, config Config) *Worker {
	if config.Interval <= 0 {
		config.Interval = defaultInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	return &Worker{
		finder:  finder,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger,
		config:  config,
	}
}

// Start запускает обход в отдельной горутине
// Первый обход выполняется сразу
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}
	w.running = true
	w.stopCh = make(chan struct{})

	w.wg.Add(1)
	go w.loop(ctx, w.stopCh)

	w.logger.Info("Expiry worker started (ttl=%s, interval=%s, batch=%d)", w.config.TTL, w.config.Interval, w.config.BatchSize)
	return nil
}

// Stop останавливает обход и дожидается его завершения
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("Expiry worker stopped")
}

func (w *Worker) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.sweepAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			w.sweepAndLog(ctx)
		}
	}
}

func (w *Worker) sweepAndLog(ctx context.Context) {
	n, err := w.Sweep(ctx)
	if err != nil {
		w.logger.Error("Expiry sweep failed: %v", err)
		return
	}
	if n > 0 {
		w.logger.Info("Expiry sweep cancelled %d groups", n)
	}
}

// Sweep отменяет одну пачку групп, пролежавших в pending дольше TTL
// Ошибка по одной группе не прерывает обход остальных
func (w *Worker) Sweep(ctx context.Context) (int, error) {
	ids, err := w.finder.FindExpiredPendingGroups(ctx, w.config.TTL, uint64(w.config.BatchSize))
	if err != nil {
		return 0, fmt.Errorf("find expired groups: %w", err)
	}

	expired := 0
	var errs []error
	for _, id := range ids {
		ok, err := w.ledger.ExpirePending(ctx, id)
		if err != nil {
			w.logger.Warn("Expiry: failed to cancel group=%s: %v", id, err)
			errs = append(errs, err)
			continue
		}
		if ok {
			expired++
		}
	}

	if w.metrics != nil && expired > 0 {
		w.metrics.ObserveExpiredGroups(expired)
	}

	return expired, errors.Join(errs...)
}
