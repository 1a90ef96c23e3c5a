// Package transfer performs exactly one PUT of a file payload to a
// previously granted URL, reporting fractional progress and honoring
// cancellation mid-flight. It never retries and never interprets the
// response body.
package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
)

// maxRejectionBody bounds how much of a rejection body is carried in the
// outcome.
const maxRejectionBody = 4 << 10

// Status is the terminal classification of one transfer.
type Status string

const (
	// StatusSuccess: remote answered with a 2xx.
	StatusSuccess Status = "success"

	// StatusRemoteRejected: remote answered with a non-2xx; the outcome
	// carries the numeric status and any body text.
	StatusRemoteRejected Status = "remote_rejected"

	// StatusNetworkError: no response arrived (connectivity, cross-origin
	// policy, malformed request). No status code is available.
	StatusNetworkError Status = "network_error"

	// StatusCancelled: the caller aborted the transfer. Distinguished from
	// StatusNetworkError so callers do not surface it as a failure.
	StatusCancelled Status = "cancelled"
)

// Outcome is the result of one Put.
type Outcome struct {
	Status Status

	// HTTPStatus is set for StatusSuccess and StatusRemoteRejected.
	HTTPStatus int

	// Body holds rejection body text, truncated.
	Body string

	// Err holds the underlying transport error for StatusNetworkError.
	Err error
}

// Client performs single PUT transfers. The zero value is not usable; use
// New.
type Client struct {
	hc *http.Client
}

// New returns a transfer client. Transfers carry no timeout of their own;
// lifetime is governed entirely by the caller's context.
func New() *Client {
	return &Client{hc: &http.Client{}}
}

// Put uploads payload to url with the given content type. onProgress, when
// non-nil, receives fractions in [0,1] computed strictly from bytes sent
// over bytes total; it is called from the request goroutine. Cancelling ctx
// mid-flight yields StatusCancelled, never StatusNetworkError; a context
// deadline expiring mid-flight is StatusNetworkError.
func (c *Client) Put(ctx context.Context, url string, payload []byte, contentType string, onProgress func(float64)) Outcome {
	body := &progressReader{
		r:     bytes.NewReader(payload),
		total: int64(len(payload)),
		emit:  onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return Outcome{Status: StatusNetworkError, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(payload))

	resp, err := c.hc.Do(req)
	if err != nil {
		// only an explicit cancel is StatusCancelled; a deadline expiry
		// is a failure like any other transport error
		if errors.Is(err, context.Canceled) {
			return Outcome{Status: StatusCancelled}
		}
		return Outcome{Status: StatusNetworkError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if onProgress != nil {
			onProgress(1.0)
		}
		return Outcome{Status: StatusSuccess, HTTPStatus: resp.StatusCode}
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBody))
	return Outcome{Status: StatusRemoteRejected, HTTPStatus: resp.StatusCode, Body: string(b)}
}

// progressReader counts bytes handed to the transport and emits running
// fractions. When the total is unknown (zero), nothing is emitted and the
// caller should treat progress as indeterminate.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	emit  func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.emit != nil && p.total > 0 {
			f := float64(p.sent) / float64(p.total)
			if f > 1 {
				f = 1
			}
			p.emit(f)
		}
	}
	return n, err
}
