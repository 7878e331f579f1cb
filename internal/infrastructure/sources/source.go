package sources

import (
	"context"

	"car_monitor/internal/config"
	"car_monitor/internal/domain/entity"
	"car_monitor/internal/infrastructure/fetch"
)

// Source умеет найти объявления по фильтру на одном сайте: построить
// поисковый запрос, сходить с ретраями и извлечь сырые объявления
// из ответа.
type Source interface {
	Name() string
	Search(ctx context.Context, f entity.Filter) ([]entity.RawListing, error)
}

// Registry держит включённые источники в фиксированном порядке обхода.
type Registry struct {
	sources []Source
}

func NewRegistry(srcs ...Source) *Registry {
	return &Registry{sources: srcs}
}

// NewRegistryFromConfig собирает реестр по конфигурации. ab.onliner.by
// получает рендерящий фетчер, остальным хватает обычного HTTP.
func NewRegistryFromConfig(
	cfg config.Sources,
	httpFetcher *fetch.Fetcher,
	chromeFetcher *fetch.Fetcher,
	retrier fetch.Retrier,
) *Registry {
	r := &Registry{}

	if cfg.AvByEnabled {
		r.sources = append(r.sources, NewAvBy(httpFetcher, retrier))
	}

	if cfg.KufarEnabled {
		r.sources = append(r.sources, NewKufar(httpFetcher, retrier))
	}

	if cfg.OnlinerEnabled {
		r.sources = append(r.sources, NewOnliner(chromeFetcher, retrier))
	}

	if cfg.AbwEnabled {
		r.sources = append(r.sources, NewAbw(httpFetcher, retrier))
	}

	return r
}

func (r *Registry) All() []Source {
	return r.sources
}

func (r *Registry) Get(name string) (Source, bool) {
	for _, s := range r.sources {
		if s.Name() == name {
			return s, true
		}
	}

	return nil, false
}
