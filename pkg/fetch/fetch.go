// Package fetch is the outbound HTTP client shared by the metadata and
// generation clients. Every request carries a deadline and passes through a
// circuit breaker named after the remote service.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"movie_curator/pkg/logger"
	"movie_curator/pkg/metrics"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/valyala/fasthttp"
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Client struct {
	name    string
	http    *fasthttp.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[*Response]
}

var ErrServerStatus = errors.New("remote server error")

func NewClient(name string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		name: name,
		http: &fasthttp.Client{
			Name:            "movie_curator",
			MaxConnsPerHost: 64,
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
		},
		timeout: timeout,
		breaker: breaker,
	}
}

//------------------------------------------
//------------------------------------------

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, fasthttp.MethodGet, url, nil)
}

func (c *Client) PostJSON(ctx context.Context, url string, body []byte) (*Response, error) {
	return c.do(ctx, fasthttp.MethodPost, url, body)
}

func (c *Client) do(ctx context.Context, method string, url string, body []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	res, err := c.breaker.Execute(func() (*Response, error) {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(method)
		if body != nil {
			req.Header.SetContentType("application/json")
			req.SetBody(body)
		}

		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}

		out := &Response{
			StatusCode: resp.StatusCode(),
			Body:       append([]byte(nil), resp.Body()...),
		}
		if out.StatusCode >= fasthttp.StatusInternalServerError {
			return out, fmt.Errorf("%w: status %d", ErrServerStatus, out.StatusCode)
		}
		return out, nil
	})
	metrics.ExternalRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.ExternalRequests.WithLabelValues(c.name, result).Inc()
		return res, err
	}
	metrics.ExternalRequests.WithLabelValues(c.name, "success").Inc()
	return res, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
