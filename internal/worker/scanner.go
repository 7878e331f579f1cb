package worker

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"car_monitor/internal/config"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/service/listing"
	"car_monitor/internal/infrastructure/sources"
	"car_monitor/pkg/contextx"
	"car_monitor/pkg/logx"
)

type FilterStore interface {
	ListActive(ctx context.Context) ([]entity.Filter, error)
}

type FoundStore interface {
	Exists(ctx context.Context, source, externalID string, recipientID int64) (bool, error)
	Create(ctx context.Context, found *entity.FoundListing) (int64, error)
	MarkNotified(ctx context.Context, id int64) error
}

type SeenStore interface {
	Seen(ctx context.Context, source, externalID string, recipientID int64) (bool, error)
	MarkSeen(ctx context.Context, source, externalID string, recipientID int64) error
}

type Sink interface {
	Deliver(ctx context.Context, recipientID int64, l entity.Listing) error
}

// Scanner обходит по расписанию все активные фильтры по всем источникам
// и рассылает получателям свежие находки. Циклы не накладываются:
// следующий начинается не раньше, чем закончится предыдущий.
type Scanner struct {
	filters    FilterStore
	found      FoundStore
	seen       SeenStore
	sink       Sink
	registry   *sources.Registry
	normalizer *listing.Normalizer
	cfg        config.Monitor

	// processed отсекает повторную отправку одного объявления, когда
	// под него попали несколько фильтров получателя в одном цикле.
	processed *gocache.Cache
	nowFn     func() time.Time

	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewScanner(
	filters FilterStore,
	found FoundStore,
	seen SeenStore,
	sink Sink,
	registry *sources.Registry,
	normalizer *listing.Normalizer,
	cfg config.Monitor,
) *Scanner {
	return &Scanner{
		filters:    filters,
		found:      found,
		seen:       seen,
		sink:       sink,
		registry:   registry,
		normalizer: normalizer,
		cfg:        cfg,
		processed:  gocache.New(gocache.NoExpiration, 0),
		nowFn:      time.Now,
	}
}

// WithNow подменяет источник времени.
func (w *Scanner) WithNow(now func() time.Time) *Scanner {
	w.nowFn = now

	return w
}

func (w *Scanner) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("сканер завершился с ошибкой", logx.Error(err))
		}
	}()

	return nil
}

func (w *Scanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()

		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус.
func (w *Scanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.isRunning
}

func (w *Scanner) Run(ctx context.Context) error {
	logger(ctx).Info("сканер запущен", slog.Duration("interval", w.cfg.Interval))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(w.cfg.InitialDelay):
	}

	w.scanCycle(ctx)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("сканер остановлен")

			return ctx.Err()
		case <-ticker.C:
			w.scanCycle(ctx)

			// Тик, пришедший за время долгого цикла, выбрасывается:
			// циклы идут строго последовательно.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (w *Scanner) scanCycle(ctx context.Context) {
	cycleID := xid.New().String()

	log := logger(ctx).With(logx.FieldTraceID, cycleID)
	ctx = contextx.WithLogger(ctx, log)

	started := w.nowFn()

	w.processed.Flush()

	filters, err := w.filters.ListActive(ctx)
	if err != nil {
		log.Error("активные фильтры не прочитались", logx.Error(err))

		return
	}

	if len(filters) == 0 {
		log.Debug("нет активных фильтров, цикл пропущен")

		return
	}

	var notified int

	for _, f := range filters {
		if ctx.Err() != nil {
			return
		}

		notified += w.scanFilter(ctx, f)
	}

	metricCycles.Inc()

	log.Info("цикл сканирования завершён",
		slog.Int("filters", len(filters)),
		slog.Int("notified", notified),
		slog.Duration("took", w.nowFn().Sub(started)),
	)
}

func (w *Scanner) scanFilter(ctx context.Context, f entity.Filter) int {
	limit := w.cfg.ResultCap

	// Свежий фильтр сканируется глубже: получатель ещё не видел
	// и давно висящие объявления.
	if w.nowFn().Sub(f.CreatedAt) < w.cfg.DeepScanAge {
		limit = w.cfg.DeepResultCap
	}

	var notified int

	for _, src := range w.registry.All() {
		if ctx.Err() != nil {
			break
		}

		notified += w.scanSource(ctx, src, f, limit)
	}

	return notified
}

// scanSource опрашивает один источник по одному фильтру. Ошибка
// источника не валит цикл: остальные сайты опрашиваются дальше.
func (w *Scanner) scanSource(ctx context.Context, src sources.Source, f entity.Filter, limit int) int {
	raws, err := src.Search(ctx, f)
	if err != nil {
		metricSourceErrors.WithLabelValues(src.Name()).Inc()
		logger(ctx).Error("источник не опросился",
			slog.String("source", src.Name()),
			slog.Int64("filter-id", f.ID),
			logx.Error(err),
		)

		return 0
	}

	metricExtracted.WithLabelValues(src.Name()).Add(float64(len(raws)))

	if len(raws) > limit {
		raws = raws[:limit]
	}

	var notified int

	for _, raw := range raws {
		if ctx.Err() != nil {
			break
		}

		l := w.normalizer.Normalize(ctx, raw)

		if !l.IsViable() || !listing.Matches(l, f) {
			continue
		}

		if w.alreadyProcessed(l, f.RecipientID) {
			continue
		}

		if w.alreadySeen(ctx, l, f.RecipientID) {
			continue
		}

		if w.notify(ctx, l, f) {
			notified++

			w.pause(ctx)
		}
	}

	return notified
}

func (w *Scanner) alreadyProcessed(l entity.Listing, recipientID int64) bool {
	key := l.Source + "|" + l.ExternalID + "|" + strconv.FormatInt(recipientID, 10)

	if _, ok := w.processed.Get(key); ok {
		return true
	}

	w.processed.SetDefault(key, struct{}{})

	return false
}

func (w *Scanner) alreadySeen(ctx context.Context, l entity.Listing, recipientID int64) bool {
	seen, err := w.seen.Seen(ctx, l.Source, l.ExternalID, recipientID)
	if err != nil {
		logger(ctx).Warn("кеш дедупликации недоступен", logx.Error(err))
	} else if seen {
		return true
	}

	exists, err := w.found.Exists(ctx, l.Source, l.ExternalID, recipientID)
	if err != nil {
		// Когда база недоступна, лучше промолчать, чем разослать дубли.
		logger(ctx).Error("проверка дубля не выполнилась", logx.Error(err))

		return true
	}

	if exists {
		w.markSeen(ctx, l, recipientID)

		return true
	}

	return false
}

func (w *Scanner) notify(ctx context.Context, l entity.Listing, f entity.Filter) bool {
	found := &entity.FoundListing{
		FilterID:    f.ID,
		RecipientID: f.RecipientID,
		Listing:     l,
	}

	id, err := w.found.Create(ctx, found)
	if err != nil {
		logger(ctx).Error("находка не сохранилась", logx.Error(err))

		return false
	}

	w.markSeen(ctx, l, f.RecipientID)

	if id == 0 {
		// Уникальный индекс сработал: параллельный цикл успел раньше.
		return false
	}

	if err := w.sink.Deliver(ctx, f.RecipientID, l); err != nil {
		logger(ctx).Error("уведомление не отправилось",
			slog.Int64("recipient-id", f.RecipientID),
			slog.String("url", l.URL),
			logx.Error(err),
		)

		return false
	}

	if err := w.found.MarkNotified(ctx, id); err != nil {
		logger(ctx).Warn("отметка об отправке не записалась", logx.Error(err))
	}

	metricNotifications.Inc()

	return true
}

func (w *Scanner) markSeen(ctx context.Context, l entity.Listing, recipientID int64) {
	if err := w.seen.MarkSeen(ctx, l.Source, l.ExternalID, recipientID); err != nil {
		logger(ctx).Debug("кеш дедупликации не записался", logx.Error(err))
	}
}

// pause выдерживает паузу между уведомлениями, чтобы не упереться
// в лимиты телеграма.
func (w *Scanner) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.cfg.NotifyPause):
	}
}
