package fetch

import (
	"context"
	"net/http"
	"time"
)

// Request — один запрос к сайту-источнику.
type Request struct {
	URL     string
	Headers map[string]string
	// WaitSelector — CSS-селектор, появления которого должен дождаться
	// рендерящий транспорт. Обычный HTTP-транспорт его игнорирует.
	WaitSelector string
}

// Response — статус и тело ответа. Не-2xx не считается ошибкой транспорта:
// решение о ретрае принимает вызывающий.
type Response struct {
	Status int
	Body   []byte
}

func (r Response) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// Transport выполняет запрос ровно один раз, без ретраев.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// Fetcher добавляет к транспорту паузу вежливости перед каждым запросом,
// чтобы не забрасывать сайты очередями запросов.
type Fetcher struct {
	transport Transport
	delay     time.Duration
}

func NewFetcher(transport Transport, delay time.Duration) *Fetcher {
	return &Fetcher{
		transport: transport,
		delay:     delay,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, req Request) (Response, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}

	return f.transport.Do(ctx, req)
}
