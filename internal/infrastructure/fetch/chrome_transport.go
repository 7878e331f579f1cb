package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
)

const waitSelectorTimeout = 15 * time.Second

// ChromeTransport рендерит страницу в headless-хроме. Нужен для
// источников, которые отдают пустую разметку без выполнения JS.
type ChromeTransport struct {
	timeout       time.Duration
	allocatorOpts []chromedp.ExecAllocatorOption
}

func NewChromeTransport(timeout time.Duration) *ChromeTransport {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(defaultUserAgent),
	)

	return &ChromeTransport{
		timeout:       timeout,
		allocatorOpts: opts,
	}
}

func (t *ChromeTransport) Do(ctx context.Context, req Request) (Response, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, t.allocatorOpts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	if t.timeout > 0 {
		var cancelTimeout context.CancelFunc
		taskCtx, cancelTimeout = context.WithTimeout(taskCtx, t.timeout)

		defer cancelTimeout()
	}

	if err := chromedp.Run(taskCtx, chromedp.Navigate(req.URL)); err != nil {
		return Response{}, fmt.Errorf("chromedp.Navigate: %w", err)
	}

	// Ждём появления карточек, но не считаем их отсутствие фатальным:
	// страница без результатов — это тоже ответ.
	if req.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(taskCtx, waitSelectorTimeout)

		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(req.WaitSelector, chromedp.ByQuery)); err != nil {
			logger(ctx).Debug(
				"селектор не дождались, разбираем что есть",
				slog.String("url", req.URL),
				slog.String("selector", req.WaitSelector),
			)
		}

		cancelWait()
	}

	var html string

	if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return Response{}, fmt.Errorf("chromedp.OuterHTML: %w", err)
	}

	return Response{
		Status: http.StatusOK,
		Body:   []byte(html),
	}, nil
}
