package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

// Input sanitization stages. Both stages normalize silently — they
// strip or escape and pass the request on, they never reject. They run
// after the body size cap so no work is spent on oversized payloads.

// SanitizeOperators recursively removes query-operator keys (keys
// beginning with '$' or containing '.') from the JSON body, the query
// string and the route parameters, before any of those values can reach
// the data layer.
func SanitizeOperators() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rewriteJSONBody(c, StripOperators)

			// Drop operator keys from the query string.
			q := c.Request().URL.Query()
			changed := false
			for k := range q {
				if isOperatorKey(k) {
					delete(q, k)
					changed = true
				}
			}
			if changed {
				c.Request().URL.RawQuery = q.Encode()
			}
			return next(c)
		}
	}
}

// SanitizeMarkup recursively HTML-escapes angle brackets in every
// string-typed input field — body, query and route parameters — so
// script markup is inert by the time a handler or the store sees it.
func SanitizeMarkup() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rewriteJSONBody(c, EscapeMarkup)

			q := c.Request().URL.Query()
			changed := false
			for k, vals := range q {
				for i, v := range vals {
					if e := escapeString(v); e != v {
						vals[i] = e
						changed = true
					}
				}
				q[k] = vals
			}
			if changed {
				c.Request().URL.RawQuery = q.Encode()
			}

			names := c.ParamNames()
			if len(names) > 0 {
				vals := c.ParamValues()
				escaped := make([]string, len(vals))
				for i, v := range vals {
					escaped[i] = escapeString(v)
				}
				c.SetParamNames(names...)
				c.SetParamValues(escaped...)
			}
			return next(c)
		}
	}
}

// isOperatorKey reports whether a field name looks like a store
// operator: a '$' prefix or an embedded dot path.
func isOperatorKey(k string) bool {
	return strings.HasPrefix(k, "$") || strings.Contains(k, ".")
}

// StripOperators walks a decoded JSON value and drops every map entry
// whose key is an operator key, at any depth.
func StripOperators(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if isOperatorKey(k) {
				delete(t, k)
				continue
			}
			t[k] = StripOperators(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = StripOperators(val)
		}
		return t
	default:
		return v
	}
}

// EscapeMarkup walks a decoded JSON value and escapes angle brackets in
// every string it contains.
func EscapeMarkup(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = EscapeMarkup(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = EscapeMarkup(val)
		}
		return t
	case string:
		return escapeString(t)
	default:
		return v
	}
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// rewriteJSONBody applies transform to a JSON request body and swaps
// the rewritten bytes back in. Non-JSON and unparseable bodies pass
// through untouched; sanitization never raises.
func rewriteJSONBody(c echo.Context, transform func(any) any) {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return
	}
	ctype := req.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return
	}
	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		req.Body = io.NopCloser(bytes.NewReader(nil))
		return
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Leave malformed JSON for the binder to reject.
		req.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}
	// Encode with HTML escaping off, otherwise the & introduced by
	// escapeString would itself be rewritten to & on the wire.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(transform(decoded)); err != nil {
		req.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}
	clean := bytes.TrimRight(buf.Bytes(), "\n")
	req.Body = io.NopCloser(bytes.NewReader(clean))
	req.ContentLength = int64(len(clean))
}
