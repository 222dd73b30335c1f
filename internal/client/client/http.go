package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
)

// HTTPClient implements Client against the GophNotes REST API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for baseURL (e.g. "http://127.0.0.1:8080").
// timeout bounds every request except attachment transfers, which are
// bounded by the caller's context only.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func mapStatus(code int, body []byte) error {
	if code < 400 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, code, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, code, msg)
	}
}

func mapTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+c.token)
	}
	return req, nil
}

// do sends req and decodes a JSON answer into out when out is non-nil.
func (c *HTTPClient) do(hc *http.Client, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return mapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return mapStatus(resp.StatusCode, body)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) call(ctx context.Context, method, path string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(c.http, req, out)
}

func entityPath(kind models.EntityKind, id string) (string, error) {
	col := kind.Collection()
	if col == "" {
		return "", fmt.Errorf("%w: %q", common.ErrorUnknownKind, kind)
	}
	if id == "" {
		return "/" + col, nil
	}
	return "/" + col + "/" + url.PathEscape(id), nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health/live", nil, nil)
}

func (c *HTTPClient) Create(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error {
	path, err := entityPath(kind, "")
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, path, payload, nil)
}

func (c *HTTPClient) Update(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error {
	path, err := entityPath(kind, id)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodPut, path, payload, nil)
}

func (c *HTTPClient) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	path, err := entityPath(kind, id)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) ListNotebooks(ctx context.Context) ([]models.Notebook, error) {
	var out []models.Notebook
	if err := c.call(ctx, http.MethodGet, "/notebooks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	if err := c.call(ctx, http.MethodGet, "/tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListNotes(ctx context.Context) ([]models.Note, error) {
	var out []models.Note
	if err := c.call(ctx, http.MethodGet, "/notes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// streaming transfers are not cut off by the per-request timeout
func (c *HTTPClient) transferClient() *http.Client {
	hc := *c.http
	hc.Timeout = 0
	return &hc
}

// UploadAttachment streams r as the multipart field "file".
func (c *HTTPClient) UploadAttachment(ctx context.Context, noteID, filename, mimeType string, r io.Reader) (*models.Attachment, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h.Set("Content-Type", mimeType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/attachments?noteId="+url.QueryEscape(noteID), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out models.Attachment
	if err := c.do(c.transferClient(), req, &out); err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListAttachments(ctx context.Context, noteID string) ([]models.Attachment, error) {
	var out []models.Attachment
	if err := c.call(ctx, http.MethodGet, "/attachments/"+url.PathEscape(noteID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AttachmentHistory(ctx context.Context, noteID, filename string) ([]models.Attachment, error) {
	var out []models.Attachment
	path := "/attachments/" + url.PathEscape(noteID) + "/history?filename=" + url.QueryEscape(filename)
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteAttachment(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) DownloadAttachment(ctx context.Context, id string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/attachments/"+url.PathEscape(id)+"/content", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.transferClient().Do(req)
	if err != nil {
		return 0, mapTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, mapStatus(resp.StatusCode, body)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to download attachment %s: %w", id, err)
	}
	return n, nil
}
