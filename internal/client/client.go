// Package client is a typed HTTP client for the platform API.  Failed
// calls come back as the apperr sentinels the server raised, so callers
// test them with errors.Is exactly as the services do.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/codewithtechno/techno-hub/internal/apperr"
)

// Client calls the API at one base URL.  It is safe for concurrent use.
type Client struct {
	base string
	http *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL.  A nil hc uses a client with a 15s
// timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// SetToken sets the bearer token sent with every request.  An empty token
// makes the client anonymous.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperr.ErrTransient, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&eb); err != nil || eb.Code == "" {
		return fmt.Errorf("%w: unexpected status %d", apperr.ErrTransient, resp.StatusCode)
	}
	if eb.Code == apperr.CodeValidation && len(eb.Fields) > 0 {
		return &apperr.ValidationError{Fields: eb.Fields}
	}
	return apperr.FromCode(eb.Code, eb.Error)
}

type list[T any] struct {
	Items []T `json:"items"`
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out list[T]
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: {value}}.Encode()
}

// UploadCover sends content as the multipart "file" field and returns the
// stored object's public URL.
func (c *Client) UploadCover(ctx context.Context, bucket, filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/admin/uploads/"+url.PathEscape(bucket), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
