// Package filesapi is the HTTP client for the file storage API. It
// implements registry.Service.
package filesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/JaimeStill/esgdash/internal/registry"
)

const (
	opUpload     = "upload"
	opListAll    = "list_all"
	opListUsed   = "list_used"
	opToggleUsed = "toggle_used"
	opRemove     = "remove"
)

// Client calls the storage API. Each operation runs behind its own circuit
// breaker; failed calls are never retried.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *slog.Logger
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

var _ registry.Service = (*Client)(nil)

// New creates a Client from a finalized Config. A nil httpClient uses a
// client with the configured timeout.
func New(cfg *Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}

	c := &Client{
		baseURL:  cfg.BaseURL,
		http:     httpClient,
		logger:   logger.With("system", "filesapi"),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}

	for _, op := range []string{opUpload, opListAll, opListUsed, opToggleUsed, opRemove} {
		c.breakers[op] = c.newBreaker(cfg, op)
	}

	return c
}

func (c *Client) newBreaker(cfg *Config, op string) *gobreaker.CircuitBreaker[any] {
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        op,
		MaxRequests: cfg.BreakerHalfOpenMaxCalls,
		Timeout:     cfg.BreakerOpenTimeoutDuration(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
}

func (c *Client) execute(op string, fn func() error) error {
	_, err := c.breakers[op].Execute(func() (any, error) {
		return nil, fn()
	})
	if err != nil && IsCircuitOpen(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

// Upload posts u as the multipart field "file".
func (c *Client) Upload(ctx context.Context, u registry.Upload) (*registry.FileRecord, error) {
	var created registry.FileRecord

	err := c.execute(opUpload, func() error {
		body, contentType, err := multipartBody(u)
		if err != nil {
			return fmt.Errorf("%s: %w", opUpload, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", body)
		if err != nil {
			return fmt.Errorf("%s: %w", opUpload, err)
		}
		req.Header.Set("Content-Type", contentType)

		return c.do(req, opUpload, http.StatusCreated, &created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAll returns every file, newest first.
func (c *Client) ListAll(ctx context.Context) ([]registry.FileRecord, error) {
	return c.list(ctx, opListAll, "/files")
}

// ListUsed returns the files marked in use.
func (c *Client) ListUsed(ctx context.Context) ([]registry.FileRecord, error) {
	return c.list(ctx, opListUsed, "/files/used")
}

func (c *Client) list(ctx context.Context, op, path string) ([]registry.FileRecord, error) {
	records := []registry.FileRecord{}

	err := c.execute(op, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return c.do(req, op, http.StatusOK, &records)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ToggleUsed flips the file's in-use flag and returns the updated record.
func (c *Client) ToggleUsed(ctx context.Context, id int64) (*registry.FileRecord, error) {
	var updated registry.FileRecord

	err := c.execute(opToggleUsed, func() error {
		url := fmt.Sprintf("%s/files/%d/toggle-used", c.baseURL, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", opToggleUsed, err)
		}
		return c.do(req, opToggleUsed, http.StatusOK, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes the file and its stored document.
func (c *Client) Remove(ctx context.Context, id int64) error {
	return c.execute(opRemove, func() error {
		url := fmt.Sprintf("%s/files/%d", c.baseURL, id)
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", opRemove, err)
		}
		return c.do(req, opRemove, http.StatusNoContent, nil)
	})
}

func (c *Client) do(req *http.Request, op string, want int, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if resp.StatusCode != want {
		c.logger.Debug("unexpected success status", "operation", op, "status", resp.StatusCode, "want", want)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	se := &StatusError{Op: op, Code: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		se.Message = body.Error
	} else {
		se.Message = strings.TrimSpace(string(data))
	}
	return se
}

func multipartBody(u registry.Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, u.Name))
	header.Set("Content-Type", u.ContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
