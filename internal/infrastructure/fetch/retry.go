package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"car_monitor/internal/domain"
	"car_monitor/pkg/errcodes"
)

const (
	defaultRetryAttempts   = 3
	defaultBackoffBase     = 2 * time.Second
	rateLimitedBackoffMult = 2
)

// Retrier повторяет запрос, пока источник не ответит успешно. Пауза растёт
// с номером попытки; на HTTP 429 ждём вдвое дольше и ретраим всегда.
type Retrier struct {
	Attempts    int
	BackoffBase time.Duration
}

func (r Retrier) Do(ctx context.Context, fetchFn func(context.Context) (Response, error)) (Response, error) {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}

	base := r.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := fetchFn(ctx)

		rateLimited := false

		switch {
		case err != nil:
			lastErr = err
		case resp.OK():
			return resp, nil
		case resp.Status == http.StatusTooManyRequests:
			rateLimited = true
			lastErr = domain.NewError(errcodes.SourceRateLimited, "источник ограничил частоту запросов")
		default:
			lastErr = domain.NewError(errcodes.SourceUnavailable, fmt.Sprintf("источник ответил HTTP %d", resp.Status))
		}

		if attempt == attempts {
			break
		}

		wait := time.Duration(attempt) * base
		if rateLimited {
			wait *= rateLimitedBackoffMult
		}

		logger(ctx).Debug(
			"запрос не удался, повтор",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
		)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}

	return Response{}, lastErr
}
