package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"car_monitor/internal/domain"
	"car_monitor/internal/infrastructure/fetch"
	"car_monitor/pkg/errcodes"
)

func TestRetrier(t *testing.T) {
	retrier := fetch.Retrier{Attempts: 3, BackoffBase: time.Millisecond}

	t.Run("429 then success", func(t *testing.T) {
		rq := require.New(t)

		statuses := []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK}
		calls := 0

		resp, err := retrier.Do(context.Background(), func(context.Context) (fetch.Response, error) {
			status := statuses[calls]
			calls++

			return fetch.Response{Status: status, Body: []byte("ok")}, nil
		})

		rq.NoError(err)
		rq.Equal(http.StatusOK, resp.Status)
		rq.Equal(3, calls)
	})

	t.Run("429 exhausts attempts", func(t *testing.T) {
		rq := require.New(t)

		calls := 0

		_, err := retrier.Do(context.Background(), func(context.Context) (fetch.Response, error) {
			calls++

			return fetch.Response{Status: http.StatusTooManyRequests}, nil
		})

		rq.Error(err)
		rq.Equal(3, calls)

		code, ok := domain.GetCode(err)
		rq.True(ok)
		rq.Equal(errcodes.SourceRateLimited, code)
	})

	t.Run("500 retried then gives up", func(t *testing.T) {
		rq := require.New(t)

		calls := 0

		_, err := retrier.Do(context.Background(), func(context.Context) (fetch.Response, error) {
			calls++

			return fetch.Response{Status: http.StatusInternalServerError}, nil
		})

		rq.Error(err)
		rq.Equal(3, calls)

		code, ok := domain.GetCode(err)
		rq.True(ok)
		rq.Equal(errcodes.SourceUnavailable, code)
	})

	t.Run("Transport error retried", func(t *testing.T) {
		rq := require.New(t)

		transportErr := errors.New("connection reset")
		calls := 0

		_, err := retrier.Do(context.Background(), func(context.Context) (fetch.Response, error) {
			calls++

			if calls < 2 {
				return fetch.Response{}, transportErr
			}

			return fetch.Response{Status: http.StatusOK}, nil
		})

		rq.NoError(err)
		rq.Equal(2, calls)
	})

	t.Run("Context cancel stops waiting", func(t *testing.T) {
		rq := require.New(t)

		slow := fetch.Retrier{Attempts: 3, BackoffBase: time.Minute}

		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := slow.Do(ctx, func(context.Context) (fetch.Response, error) {
			return fetch.Response{Status: http.StatusBadGateway}, nil
		})

		rq.ErrorIs(err, context.Canceled)
	})
}

func TestFetcherDelay(t *testing.T) {
	rq := require.New(t)

	fetcher := fetch.NewFetcher(transportFunc(func(_ context.Context, req fetch.Request) (fetch.Response, error) {
		return fetch.Response{Status: http.StatusOK, Body: []byte(req.URL)}, nil
	}), 5*time.Millisecond)

	start := time.Now()

	resp, err := fetcher.Fetch(context.Background(), fetch.Request{URL: "https://example.com"})
	rq.NoError(err)
	rq.Equal("https://example.com", string(resp.Body))
	rq.GreaterOrEqual(time.Since(start), 5*time.Millisecond)
}

type transportFunc func(ctx context.Context, req fetch.Request) (fetch.Response, error)

func (f transportFunc) Do(ctx context.Context, req fetch.Request) (fetch.Response, error) {
	return f(ctx, req)
}
