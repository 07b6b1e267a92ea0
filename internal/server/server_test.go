package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiomdb/axiom/internal/tokenizer"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tok := tokenizer.NewBPETokenizer(tokenizer.WithLogger(logger))
	require.NoError(t, tok.Train(context.Background(), "hello hello world", 266))
	return New(tok, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeBody[map[string]any](t, w)
	assert.Equal(t, "ok", got["status"])
	assert.EqualValues(t, 266, got["vocab_size"])
}

func TestEncode(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "single text",
			body: `{"text":"hello world"}`,
			want: map[string]any{"ids": []any{259.0, 265.0}},
		},
		{
			name: "empty text",
			body: `{"text":""}`,
			want: map[string]any{"ids": []any{}},
		},
		{
			name: "batch",
			body: `{"texts":["hello","", " world"]}`,
			want: map[string]any{"batch": []any{
				[]any{259.0},
				[]any{},
				[]any{265.0},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/encode", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, decodeBody[map[string]any](t, w))
		})
	}
}

func TestEncode_BadRequest(t *testing.T) {
	s := newTestServer(t)

	for name, body := range map[string]string{
		"malformed json": `{"text":`,
		"missing text":   `{}`,
		"wrong type":     `{"text":42}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/encode", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, w)["error"])
		})
	}
}

func TestDecode(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/decode", `{"ids":[259,265]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DecodeResponse{Text: "hello world", Unknown: 0}, decodeBody[DecodeResponse](t, w))

	w = do(t, s, http.MethodPost, "/api/decode", `{"ids":[104,99999,105]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DecodeResponse{Text: "h�i", Unknown: 1}, decodeBody[DecodeResponse](t, w))

	w = do(t, s, http.MethodPost, "/api/decode", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMerges(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/merges", "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeBody[MergesResponse](t, w)
	assert.Equal(t, 10, all.Total)
	require.Len(t, all.Merges, 10)
	assert.Equal(t, MergeEntry{Rank: 0, Left: 'h', Right: 'e', ID: 256, Token: "he"}, all.Merges[0])
	assert.Equal(t, " world", all.Merges[9].Token)

	w = do(t, s, http.MethodGet, "/api/merges?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	limited := decodeBody[MergesResponse](t, w)
	assert.Equal(t, 10, limited.Total)
	assert.Equal(t, all.Merges[:2], limited.Merges)

	w = do(t, s, http.MethodGet, "/api/merges?limit=500", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[MergesResponse](t, w).Merges, 10)

	w = do(t, s, http.MethodGet, "/api/merges?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
