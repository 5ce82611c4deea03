// Package remote fetches the activity log as CSV over HTTP.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"bdactivity/internal/log"
	"bdactivity/internal/source"
)

// defaultMaxBody caps the size of a downloaded table.
const defaultMaxBody = 64 << 20

var (
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when the body exceeds the configured cap.
	ErrTooLarge = errors.New("response body too large")
)

type Options struct {
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	MaxBody          int64
	Client           *http.Client
	Logger           *log.Logger
}

type Source struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *log.Logger
	maxBody int64
}

var _ source.Source = (*Source)(nil)

func New(url string, opts Options) *Source {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 3
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	client := opts.Client
	if client == nil {
		client = newHTTPClientWithPooling(opts.Timeout)
	}
	logger := opts.Logger.WithComponent(log.ComponentSource)

	threshold := opts.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote:" + url,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up says nothing about the remote's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &Source{url: url, client: client, breaker: breaker, logger: logger, maxBody: opts.MaxBody}
}

func (s *Source) Name() string { return "remote" }

// Identity is the URL itself; content changes are picked up only after an
// explicit invalidation.
func (s *Source) Identity(context.Context) (string, error) {
	return s.url, nil
}

// State reports the breaker state.
func (s *Source) State() string {
	return s.breaker.State().String()
}

func (s *Source) Fetch(ctx context.Context) (source.Table, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Remote fetch failed", log.FieldError, err.Error(), log.FieldOperation, log.OpFetch)
		return source.Table{}, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	return out.(source.Table), nil
}

func (s *Source) fetch(ctx context.Context) (source.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return source.Table{}, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return source.Table{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return source.Table{}, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return source.Table{}, err
	}
	if int64(len(body)) > s.maxBody {
		return source.Table{}, fmt.Errorf("%w: over %d bytes", ErrTooLarge, s.maxBody)
	}
	return source.ReadCSV(bytes.NewReader(body))
}

func newHTTPClientWithPooling(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
