package mapserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/fields"
	"github.com/jask/formdesk/internal/llm"
)

type fakeMapper struct {
	out llm.Mapped
	err error
}

func (f fakeMapper) MapRow(ctx context.Context, row map[string]fields.Value, columns []string) (llm.Mapped, error) {
	return f.out, f.err
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, llm.MapPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleMap_OK(t *testing.T) {
	t.Parallel()

	out := llm.Mapped{
		Fields: map[string]fields.Value{"Zed": fields.String("z"), "Alpha": fields.Number(1)},
		Keys:   []string{"Zed", "Alpha"},
	}
	h := New(fakeMapper{out: out}, zap.NewNop(), Options{}).Handler()
	rec := post(t, h, `{"row":{"name":"x"},"columns":["Zed","Alpha"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"Zed":"z","Alpha":1}`, rec.Body.String())
	require.True(t, strings.HasPrefix(rec.Body.String(), `{"Zed"`), "backend key order kept")
}

func TestHandleMap_Errors(t *testing.T) {
	t.Parallel()

	h := New(fakeMapper{}, nil, Options{}).Handler()

	req := httptest.NewRequest(http.MethodGet, llm.MapPath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())

	for _, body := range []string{`{"columns":["a"]}`, `{"row":{}}`, `not json`} {
		rec = post(t, h, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.JSONEq(t, `{"error":"Missing row or columns"}`, rec.Body.String())
	}

	unparsable := New(fakeMapper{err: &llm.UnparsableError{Raw: "I cannot"}}, nil, Options{}).Handler()
	rec = post(t, unparsable, `{"row":{},"columns":[]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Failed to parse Ollama response","raw":"I cannot"}`, rec.Body.String())

	down := New(fakeMapper{err: errors.New("connection refused")}, nil, Options{}).Handler()
	rec = post(t, down, `{"row":{},"columns":[]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Ollama call failed","details":"connection refused"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	h := New(fakeMapper{out: llm.Mapped{}}, nil, Options{Rate: 0.001, Burst: 2}).Handler()
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, post(t, h, `{"row":{},"columns":[]}`).Code)
	}
	rec := post(t, h, `{"row":{},"columns":[]}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	other.RemoteAddr = "10.0.0.9:5555"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	require.Equal(t, http.StatusOK, rec.Code, "limits are per client")
}

func TestLimiterSweep(t *testing.T) {
	t.Parallel()

	l := newClientLimiter(1, 1)
	l.get("a")
	require.Len(t, l.visitors, 1)
	l.sweep(-1)
	require.Empty(t, l.visitors)
}
