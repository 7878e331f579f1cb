package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"car_monitor/internal/config"
	"car_monitor/internal/domain"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/domain/service/listing"
	"car_monitor/internal/infrastructure/sources"
	"car_monitor/pkg/errcodes"
)

type fakeFilterStore struct {
	filters []entity.Filter
}

func (s *fakeFilterStore) ListActive(_ context.Context) ([]entity.Filter, error) {
	return s.filters, nil
}

type fakeFoundStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*entity.FoundListing
}

func newFakeFoundStore() *fakeFoundStore {
	return &fakeFoundStore{rows: map[string]*entity.FoundListing{}}
}

func foundKey(source, externalID string, recipientID int64) string {
	return fmt.Sprintf("%s|%s|%d", source, externalID, recipientID)
}

func (s *fakeFoundStore) Exists(_ context.Context, source, externalID string, recipientID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rows[foundKey(source, externalID, recipientID)]

	return ok, nil
}

func (s *fakeFoundStore) Create(_ context.Context, found *entity.FoundListing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := foundKey(found.Source, found.ExternalID, found.RecipientID)
	if _, ok := s.rows[key]; ok {
		return 0, nil
	}

	s.nextID++
	found.ID = s.nextID
	s.rows[key] = found

	return found.ID, nil
}

func (s *fakeFoundStore) MarkNotified(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.ID == id {
			row.Notified = true

			return nil
		}
	}

	return domain.NewError(errcodes.ListingNotFound, "находка не найдена")
}

type fakeSeenStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeSeenStore() *fakeSeenStore {
	return &fakeSeenStore{keys: map[string]bool{}}
}

func (s *fakeSeenStore) Seen(_ context.Context, source, externalID string, recipientID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keys[foundKey(source, externalID, recipientID)], nil
}

func (s *fakeSeenStore) MarkSeen(_ context.Context, source, externalID string, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[foundKey(source, externalID, recipientID)] = true

	return nil
}

type delivery struct {
	recipientID int64
	listing     entity.Listing
}

type fakeSink struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (s *fakeSink) Deliver(_ context.Context, recipientID int64, l entity.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deliveries = append(s.deliveries, delivery{recipientID: recipientID, listing: l})

	return nil
}

func (s *fakeSink) list() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]delivery(nil), s.deliveries...)
}

type fakeSource struct {
	name string
	raws []entity.RawListing
	err  error

	mu    sync.Mutex
	calls int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Search(_ context.Context, _ entity.Filter) ([]entity.RawListing, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	return s.raws, nil
}

func testMonitorConfig() config.Monitor {
	return config.Monitor{
		Interval:      time.Hour,
		InitialDelay:  time.Millisecond,
		NotifyPause:   0,
		ExchangeRate:  3.3,
		ResultCap:     50,
		DeepResultCap: 200,
		DeepScanAge:   168 * time.Hour,
	}
}

func bmwFilter(recipientID int64) entity.Filter {
	return entity.Filter{
		ID:          1,
		RecipientID: recipientID,
		Brand:       "BMW",
		PriceToUSD:  lo.ToPtr(20000.0),
		Active:      true,
		// Старый фильтр: глубокое сканирование не включается.
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
	}
}

func testRaws() []entity.RawListing {
	return []entity.RawListing{
		{
			Source:     "av.by",
			ExternalID: "1",
			Title:      "BMW 520d 2018 дизель",
			Brand:      "BMW",
			Model:      "520d",
			PriceUSD:   lo.ToPtr(19500.0),
			Year:       lo.ToPtr(2018),
			URL:        "https://cars.av.by/bmw/520d/1",
		},
		{
			// Другая марка.
			Source:     "av.by",
			ExternalID: "2",
			Title:      "Audi A4 2019",
			Brand:      "Audi",
			PriceUSD:   lo.ToPtr(15000.0),
			URL:        "https://cars.av.by/audi/a4/2",
		},
		{
			// Дороже потолка фильтра.
			Source:     "av.by",
			ExternalID: "3",
			Title:      "BMW X5 2021",
			Brand:      "BMW",
			PriceUSD:   lo.ToPtr(45000.0),
			URL:        "https://cars.av.by/bmw/x5/3",
		},
		{
			// Цена неизвестна: ограниченный по цене фильтр не проходит.
			Source:     "av.by",
			ExternalID: "4",
			Title:      "BMW 318i без цены",
			Brand:      "BMW",
			URL:        "https://cars.av.by/bmw/318i/4",
		},
		{
			// Страница фильтра, а не объявление.
			Source:     "av.by",
			ExternalID: "5",
			Title:      "BMW поиск",
			Brand:      "BMW",
			PriceUSD:   lo.ToPtr(10000.0),
			URL:        "https://cars.av.by/filter?brands=6",
		},
	}
}

func TestScannerCycle(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{name: "av.by", raws: testRaws()}
	found := newFakeFoundStore()
	seen := newFakeSeenStore()
	sink := &fakeSink{}

	scanner := NewScanner(
		&fakeFilterStore{filters: []entity.Filter{bmwFilter(100)}},
		found, seen, sink,
		sources.NewRegistry(src),
		listing.NewNormalizer(3.3),
		testMonitorConfig(),
	)

	scanner.scanCycle(context.Background())

	deliveries := sink.list()
	rq.Len(deliveries, 1)
	rq.Equal(int64(100), deliveries[0].recipientID)
	rq.Equal("1", deliveries[0].listing.ExternalID)
	// BYN досчитан по курсу.
	rq.InDelta(64350.0, *deliveries[0].listing.PriceBYN, 0.01)

	// Находка сохранена и помечена отправленной.
	row := found.rows[foundKey("av.by", "1", 100)]
	rq.NotNil(row)
	rq.True(row.Notified)
	rq.Equal(int64(1), row.FilterID)

	// Повторный цикл ничего не рассылает.
	scanner.scanCycle(context.Background())
	rq.Len(sink.list(), 1)
}

func TestScannerTwoRecipients(t *testing.T) {
	rq := require.New(t)

	filterA := bmwFilter(100)
	filterB := bmwFilter(200)
	filterB.ID = 2

	src := &fakeSource{name: "av.by", raws: testRaws()}
	sink := &fakeSink{}

	scanner := NewScanner(
		&fakeFilterStore{filters: []entity.Filter{filterA, filterB}},
		newFakeFoundStore(), newFakeSeenStore(), sink,
		sources.NewRegistry(src),
		listing.NewNormalizer(3.3),
		testMonitorConfig(),
	)

	scanner.scanCycle(context.Background())

	deliveries := sink.list()
	rq.Len(deliveries, 2)
	rq.Equal(int64(100), deliveries[0].recipientID)
	rq.Equal(int64(200), deliveries[1].recipientID)
}

// Два фильтра одного получателя поймали одно объявление: уведомление одно.
func TestScannerOverlappingFilters(t *testing.T) {
	rq := require.New(t)

	wide := bmwFilter(100)
	narrow := bmwFilter(100)
	narrow.ID = 2
	narrow.Model = "520d"

	src := &fakeSource{name: "av.by", raws: testRaws()}
	sink := &fakeSink{}

	scanner := NewScanner(
		&fakeFilterStore{filters: []entity.Filter{wide, narrow}},
		newFakeFoundStore(), newFakeSeenStore(), sink,
		sources.NewRegistry(src),
		listing.NewNormalizer(3.3),
		testMonitorConfig(),
	)

	scanner.scanCycle(context.Background())

	rq.Len(sink.list(), 1)
}

// Упавший источник не мешает остальным.
func TestScannerSourceFailure(t *testing.T) {
	rq := require.New(t)

	broken := &fakeSource{
		name: "kufar.by",
		err:  domain.NewError(errcodes.SourceUnavailable, "источник недоступен"),
	}
	healthy := &fakeSource{name: "av.by", raws: testRaws()}

	sink := &fakeSink{}

	scanner := NewScanner(
		&fakeFilterStore{filters: []entity.Filter{bmwFilter(100)}},
		newFakeFoundStore(), newFakeSeenStore(), sink,
		sources.NewRegistry(broken, healthy),
		listing.NewNormalizer(3.3),
		testMonitorConfig(),
	)

	scanner.scanCycle(context.Background())

	rq.Equal(1, broken.calls)
	rq.Len(sink.list(), 1)
}

func TestScannerStartStop(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{name: "av.by", raws: testRaws()}
	sink := &fakeSink{}

	scanner := NewScanner(
		&fakeFilterStore{filters: []entity.Filter{bmwFilter(100)}},
		newFakeFoundStore(), newFakeSeenStore(), sink,
		sources.NewRegistry(src),
		listing.NewNormalizer(3.3),
		testMonitorConfig(),
	)

	rq.NoError(scanner.Start(context.Background()))
	rq.Error(scanner.Start(context.Background()))
	rq.True(scanner.IsRunning())

	rq.Eventually(func() bool {
		return len(sink.list()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	scanner.Stop()
	rq.False(scanner.IsRunning())
}
