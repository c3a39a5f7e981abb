package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonurl "github.com/jsonurl/jsonurl-go"
	"github.com/jsonurl/jsonurl-go/middleware"
)

func TestParseQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/items?q=shoes&sizes=(8,9)&filter=(color:red)", nil)
	v, err := middleware.ParseQuery(r, middleware.DefaultConfig())
	require.NoError(t, err)
	o := v.Object()
	require.NotNil(t, o)
	assert.Equal(t, []string{"q", "sizes", "filter"}, o.Keys())
	sizes, _ := o.Get("sizes")
	assert.Equal(t, 2, sizes.Array().Len())
}

func TestParseQuery_SeedNotShared(t *testing.T) {
	cfg := middleware.DefaultConfig()
	r1 := httptest.NewRequest(http.MethodGet, "/?a=1", nil)
	r2 := httptest.NewRequest(http.MethodGet, "/?b=2", nil)
	v1, err := middleware.ParseQuery(r1, cfg)
	require.NoError(t, err)
	v2, err := middleware.ParseQuery(r2, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v1.Object().Keys())
	assert.Equal(t, []string{"b"}, v2.Object().Keys())
	assert.Equal(t, 0, cfg.Options.ImpliedObject.Len())
}

func TestHandler(t *testing.T) {
	type params struct {
		Q     string `json:"q"`
		Limit int    `json:"limit"`
	}
	h := middleware.Handler(middleware.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := middleware.Bind[params](r.Context())
		require.NoError(t, err)
		assert.Equal(t, "a b", p.Q)
		assert.Equal(t, 10, p.Limit)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=a+b&limit=10", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_BadQuery(t *testing.T) {
	h := middleware.Handler(middleware.DefaultConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?a=(1,2", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Issues []jsonurl.Issue `json:"issues"`
	}
	require.NoError(t, j.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Issues, 1)
	assert.Equal(t, jsonurl.CodeStillOpen, body.Issues[0].Code)
	assert.Contains(t, body.Issues[0].Message, "at position")
}

func TestBind_NoQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := middleware.Bind[map[string]any](r.Context())
	assert.ErrorIs(t, err, middleware.ErrNoQuery)
}

func TestErrorPayload_PlainError(t *testing.T) {
	p := middleware.ErrorPayload(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), p["error"])
}
