// Package httpx adapts handlers that return errors to net/http.
// see https://blog.questionable.services/article/http-handler-error-handling-revisited/
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"
	"golang.org/x/exp/slog"
)

// Error returns an error with an associated HTTP status code.
func Error(code int, err error) error {
	return &StatusError{code, err}
}

// StatusError represents an error with an associated HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

func (se *StatusError) Error() string {
	return se.Err.Error()
}

// Status returns the HTTP status code.
func (se *StatusError) Status() int {
	return se.Code
}

func (se *StatusError) Unwrap() error {
	return se.Err
}

// Logger is the part of the request environment the adapter needs.
type Logger interface {
	Log() *slog.Logger
}

// HandlerFunc adapts a function that returns an error to an http.HandlerFunc.
// Errors carrying a StatusError are reported with their status code,
// everything else as a 500.
func HandlerFunc[E Logger](envFn func(r *http.Request) E, fn func(E, http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := envFn(r)
		err := fn(env, w, r)
		if err == nil {
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		code := http.StatusInternalServerError
		body := http.StatusText(code)
		if se := new(StatusError); errors.As(err, &se) {
			code = se.Status()
			body = se.Error()
		}
		env.Log().Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
		w.WriteHeader(code)
		json.MarshalFull(w, map[string]any{
			"error": body,
		})
	}
}

// Redirect returns a 302 redirect to the specified URI.
func Redirect(w http.ResponseWriter, uri string) error {
	w.Header().Set("Location", uri)
	w.WriteHeader(http.StatusFound)
	return nil
}
