// Package sheets mirrors attendance events to a spreadsheet-backed Apps
// Script endpoint, best-effort. The local session store stays authoritative:
// a failed push or pull degrades silently and is never surfaced to the user.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Record is one attendance row sent to the sheet.
type Record struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Streak    int    `json:"streak"`
	TotalDays int    `json:"totalDays"`
}

// Row is one ranking snapshot row as returned by the script endpoint.
type Row struct {
	Name      string `json:"name"`
	Streak    int    `json:"streak"`
	TotalDays int    `json:"totalDays"`
}

// Client talks to one fixed script URL. Construct it explicitly and pass it
// to whatever needs it; there is no package-level instance.
type Client struct {
	http *http.Client
	url  string
	log  *zap.SugaredLogger
}

// NewClient builds a client for scriptURL. An empty URL disables the mirror;
// every call then reports failure and callers fall back to local data.
func NewClient(scriptURL string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		url:  scriptURL,
		log:  log,
	}
}

// Enabled reports whether a script URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// SaveAttendance pushes one attendance event. Returns false on any transport
// error or non-2xx status. The response body is drained but never trusted:
// the script host may answer with an opaque redirect, so this is a one-way
// notification.
func (c *Client) SaveAttendance(ctx context.Context, rec Record) bool {
	if !c.Enabled() {
		return false
	}

	body, err := json.Marshal(map[string]any{
		"action": "saveAttendance",
		"data":   rec,
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if c.log != nil {
			c.log.Warnf("sheets push failed nickname=%s err=%v", rec.Nickname, err)
		}
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.log != nil {
			c.log.Warnf("sheets push rejected nickname=%s status=%d", rec.Nickname, resp.StatusCode)
		}
		return false
	}
	return true
}

// FetchRanking pulls the shared ranking snapshot. One attempt, no retry;
// callers fall back to a cached snapshot or the local list on error.
func (c *Client) FetchRanking(ctx context.Context) ([]Row, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("sheets mirror disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?action=getRanking", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ranking fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("ranking fetch: status %d", resp.StatusCode)
	}

	var out struct {
		Data []Row `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ranking decode: %w", err)
	}
	return out.Data, nil
}
