package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

//nolint:lll
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPTransport — обычный HTTP-клиент с браузерными заголовками.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport создаёт транспорт поверх переданного RoundTripper
// (в приложении это логирующий RoundTripper из pkg/httpx).
func NewHTTPTransport(timeout time.Duration, rt http.RoundTripper) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
	}
}

func (t *HTTPTransport) Do(ctx context.Context, req Request) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	httpReq.Header.Set("User-Agent", defaultUserAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")

	for key, val := range req.Headers {
		httpReq.Header.Set(key, val)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	return Response{
		Status: resp.StatusCode,
		Body:   body,
	}, nil
}
