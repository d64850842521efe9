// Package collyfetcher retrieves article markup using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// DefaultBaseURL is the article path prefix titles are appended to.
const DefaultBaseURL = "https://en.wikipedia.org/wiki/"

const defaultTimeout = 15 * time.Second

// Config controls collector behavior.
type Config struct {
	BaseURL       string
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// FetchError reports a failed article fetch.
type FetchError struct {
	Title      string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %q (%s): status %d: %v", e.Title, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %q (%s): %v", e.Title, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves article bodies using a Colly collector.
type Fetcher struct {
	base          *url.URL
	baseCollector *colly.Collector
	logger        *zap.Logger
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. It fails only when BaseURL cannot be parsed.
func New(cfg Config, logger *zap.Logger) (*Fetcher, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.IgnoreRobotsTxt = !cfg.RespectRobots
	c.AllowURLRevisit = true
	c.WithTransport(newHTTPTransport())
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		base:          base,
		baseCollector: c,
		logger:        logger,
	}, nil
}

// ArticleURL returns the canonical URL of the article with the given title.
// The title is taken literally; characters that are not valid in a path are
// percent-encoded.
func (f *Fetcher) ArticleURL(title string) string {
	u := *f.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + title
	u.RawPath = ""
	return u.String()
}

// Fetch downloads the markup for title. Any network error, cancellation or
// non-success status is returned as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, title string) (string, error) {
	target := f.ArticleURL(title)
	start := time.Now()
	res := f.runCollector(ctx, f.baseCollector.Clone(), target)
	if res.err != nil {
		f.logger.Debug("article fetch failed",
			zap.String("title", title),
			zap.String("url", target),
			zap.Int("status", res.status),
			zap.Error(res.err),
		)
		return "", &FetchError{Title: title, URL: target, StatusCode: res.status, Err: res.err}
	}
	f.logger.Debug("article fetched",
		zap.String("title", title),
		zap.Int("status", res.status),
		zap.Int("bytes", len(res.body)),
		zap.Duration("duration", time.Since(start)),
	)
	return res.body, nil
}

type fetchResult struct {
	body   string
	status int
	err    error
}

func (f *Fetcher) configureCollectorHooks(hooks collectorHooks, res *fetchResult) {
	hooks.OnResponse(func(r *colly.Response) {
		res.status = r.StatusCode
		res.body = string(r.Body)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			res.status = r.StatusCode
		}
		if err == nil {
			err = errors.New("unknown colly error")
		}
		res.err = err
	})
}

// runCollector visits target on its own goroutine so the caller can give up
// as soon as ctx is done. The collector's callbacks only touch the result
// owned by that goroutine.
func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, target string) fetchResult {
	if err := ctx.Err(); err != nil {
		return fetchResult{err: fmt.Errorf("colly fetch canceled: %w", err)}
	}
	done := make(chan fetchResult, 1)
	go func() {
		var res fetchResult
		f.configureCollectorHooks(collector, &res)
		visitErr := collector.Visit(target)
		switch {
		case res.err != nil:
			res.err = fmt.Errorf("colly response failed: %w", res.err)
		case visitErr != nil:
			res.err = fmt.Errorf("colly visit failed: %w", visitErr)
		}
		done <- res
	}()

	select {
	case <-ctx.Done():
		return fetchResult{err: fmt.Errorf("colly fetch canceled: %w", ctx.Err())}
	case res := <-done:
		return res
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
}
