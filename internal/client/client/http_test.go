package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusTooManyRequests, ErrUnavailable},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusRequestEntityTooLarge, ErrRejected},
	}
	for _, tt := range tests {
		err := mapStatus(tt.code, []byte(`{"error":"details"}`))
		require.ErrorIs(t, err, tt.want, "status %d", tt.code)
		assert.Contains(t, err.Error(), "details")
	}
	assert.NoError(t, mapStatus(http.StatusOK, nil))
}

func TestMapTransport(t *testing.T) {
	assert.NoError(t, mapTransport(nil))
	assert.ErrorIs(t, mapTransport(errors.New("connection refused")), ErrUnavailable)
	assert.ErrorIs(t, mapTransport(context.Canceled), context.Canceled)
	assert.NotErrorIs(t, mapTransport(context.Canceled), ErrUnavailable)
}

func TestEntityCalls_MethodsPathsAndAuth(t *testing.T) {
	type call struct{ method, path, auth, body string }
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get(common.AuthorizationHeader), string(b)})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "tok", time.Second)
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, models.KindNote, "n1", json.RawMessage(`{"id":"n1"}`)))
	require.NoError(t, c.Update(ctx, models.KindNotebook, "nb 1", json.RawMessage(`{"id":"nb 1"}`)))
	require.NoError(t, c.Delete(ctx, models.KindTag, "t1"))

	require.Len(t, calls, 3)
	assert.Equal(t, call{"POST", "/notes", "Bearer tok", `{"id":"n1"}`}, calls[0])
	assert.Equal(t, call{"PUT", "/notebooks/nb 1", "Bearer tok", `{"id":"nb 1"}`}, calls[1])
	assert.Equal(t, call{"DELETE", "/tags/t1", "Bearer tok", ""}, calls[2])

	require.ErrorIs(t, c.Delete(ctx, "FOLDER", "x"), common.ErrorUnknownKind)
}

func TestErrorsAreMapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notes/missing":
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		case "/notes":
			http.Error(w, "down", http.StatusServiceUnavailable)
		default:
			http.Error(w, "", http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	ctx := context.Background()

	require.ErrorIs(t, c.Update(ctx, models.KindNote, "missing", json.RawMessage(`{}`)), ErrNotFound)
	_, err := c.ListNotes(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = c.ListTags(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, "t", time.Second)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestListNotes_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notes", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"a","title":"A","tagIds":["t1"],"attachments":[{"id":"x","filename":"f.txt","version":2}]}]`))
	}))
	defer srv.Close()

	notes, err := NewHTTPClient(srv.URL, "", time.Second).ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "A", notes[0].Title)
	assert.Equal(t, []string{"t1"}, notes[0].TagIDs)
	assert.Equal(t, 2, notes[0].Attachments[0].Version)
}

func TestUploadAttachment_Multipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/attachments", r.URL.Path)
		assert.Equal(t, "note 1", r.URL.Query().Get("noteId"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "report.pdf", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "%PDF-bytes", string(b))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"v1","noteId":"note 1","filename":"report.pdf","version":1,"isLatest":true,"size":10}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "tok", time.Second)
	a, err := c.UploadAttachment(context.Background(), "note 1", "report.pdf", "application/pdf", strings.NewReader("%PDF-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "v1", a.ID)
	assert.Equal(t, 1, a.Version)
	assert.True(t, a.IsLatest)
}

func TestAttachmentReads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/attachments/n1":
			_, _ = w.Write([]byte(`[{"id":"v3","version":3}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/attachments/n1/history":
			assert.Equal(t, "a b.pdf", r.URL.Query().Get("filename"))
			_, _ = w.Write([]byte(`[{"id":"v3","version":3},{"id":"v2","version":2}]`))
		case r.Method == http.MethodGet && r.URL.Path == "/attachments/v3/content":
			_, _ = w.Write([]byte("payload"))
		case r.Method == http.MethodDelete && r.URL.Path == "/attachments/v2":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	ctx := context.Background()

	latest, err := c.ListAttachments(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, latest, 1)

	hist, err := c.AttachmentHistory(ctx, "n1", "a b.pdf")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, []int{hist[0].Version, hist[1].Version})

	var buf bytes.Buffer
	n, err := c.DownloadAttachment(ctx, "v3", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", buf.String())

	require.NoError(t, c.DeleteAttachment(ctx, "v2"))
	require.ErrorIs(t, c.DeleteAttachment(ctx, "zzz"), ErrNotFound)
	_, err = c.DownloadAttachment(ctx, "zzz", &buf)
	require.ErrorIs(t, err, ErrNotFound)
}
