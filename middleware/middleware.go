// Package middleware parses JSON->URL query strings at HTTP boundaries.
// Framework adapters live in the echo and gin subpackages.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	j "github.com/goccy/go-json"

	jsonurl "github.com/jsonurl/jsonurl-go"
	"github.com/jsonurl/jsonurl-go/codec"
	"github.com/jsonurl/jsonurl-go/i18n"
)

// Config controls how a request query is parsed.
type Config struct {
	// Options are copied per request. An implied root gets a fresh seed
	// each time.
	Options *jsonurl.ParseOptions
	// Logger receives rejected queries at debug level. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig parses the query as an implied object with & and =
// separators, which is how HTML forms and most clients write query strings.
func DefaultConfig() Config {
	opt := jsonurl.DefaultParseOptions()
	opt.ImpliedObject = jsonurl.NewObject()
	opt.WWWFormURLEncoded = true
	return Config{Options: opt}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c Config) options() *jsonurl.ParseOptions {
	var o jsonurl.ParseOptions
	if c.Options != nil {
		o = *c.Options
	} else {
		o = *jsonurl.DefaultParseOptions()
	}
	switch {
	case o.ImpliedObject != nil:
		o.ImpliedObject = jsonurl.NewObject()
	case o.ImpliedArray != nil:
		o.ImpliedArray = jsonurl.NewArray()
	}
	return &o
}

// ParseQuery parses the raw query of r. The query is read undecoded since
// percent-escapes are part of the grammar.
func ParseQuery(r *http.Request, cfg Config) (jsonurl.Value, error) {
	v, err := jsonurl.Parse(r.URL.RawQuery, cfg.options())
	if err != nil {
		cfg.logger().Debug("jsonurl: rejected query", "path", r.URL.Path, "query", r.URL.RawQuery, "err", err)
		return jsonurl.Value{}, err
	}
	return v, nil
}

// ctxKeyValue is a typed context key for the parsed query.
type ctxKeyValue struct{}

// ContextWithValue attaches a parsed query to the context.
func ContextWithValue(ctx context.Context, v jsonurl.Value) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the parsed query from context.
func ValueFromContext(ctx context.Context) (jsonurl.Value, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(jsonurl.Value)
	return v, ok
}

// Bind maps the parsed query in ctx onto a T.
func Bind[T any](ctx context.Context) (T, error) {
	var out T
	v, ok := ValueFromContext(ctx)
	if !ok {
		return out, ErrNoQuery
	}
	err := codec.Assign(v, &out)
	return out, err
}

// ErrNoQuery is returned by Bind when no middleware stored a query.
var ErrNoQuery = errors.New("middleware: no parsed query in context")

// ErrorPayload shapes a parse failure for JSON responses. Messages come from
// the i18n package so they follow the configured language.
func ErrorPayload(err error) map[string]any {
	iss, ok := jsonurl.AsIssue(err)
	if !ok {
		return map[string]any{"error": err.Error()}
	}
	data := map[string]string{}
	if iss.Offset >= 0 {
		data["offset"] = strconv.Itoa(iss.Offset)
	}
	iss.Message = i18n.T(iss.Code, data)
	return map[string]any{"issues": []jsonurl.Issue{iss}}
}

// Handler parses the request query before calling next. The result is
// available through ValueFromContext. Malformed queries get a 400 with
// ErrorPayload as the body.
func Handler(cfg Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, err := ParseQuery(r, cfg)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorPayload(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	b, err := j.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
