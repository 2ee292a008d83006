package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// escapeHTML neutralizes markup without mangling quotes or ampersands in
// legitimate values like passwords.
var escapeHTML = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// MaxBodyBytes caps request bodies at 10KB.
const MaxBodyBytes = 10 << 10

// arrayFields may legitimately repeat as query parameters; every other
// duplicated parameter collapses to its last value.
var arrayFields = map[string]bool{
	"duration":        true,
	"ratingsQuantity": true,
	"ratingsAverage":  true,
	"maxGroupSize":    true,
	"difficulty":      true,
	"price":           true,
}

// Sanitize applies the global input hygiene: body size cap, NoSQL operator
// stripping, HTML escaping, and query parameter pollution collapse. Runs
// before any handler decodes input.
func Sanitize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// multipart uploads carry images and get their own limits at the
		// handler
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		}
		r.URL.RawQuery = cleanQuery(r.URL.Query()).Encode()

		if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if cleaned, ok := cleanJSONBody(r.Body); ok {
				r.Body = io.NopCloser(bytes.NewReader(cleaned))
				r.ContentLength = int64(len(cleaned))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// cleanQuery drops operator-injection keys and collapses duplicates
// outside the array-capable whitelist.
func cleanQuery(values url.Values) url.Values {
	out := url.Values{}
	for key, vals := range values {
		if strings.HasPrefix(key, "$") {
			continue
		}
		cleaned := make([]string, 0, len(vals))
		for _, v := range vals {
			cleaned = append(cleaned, escapeHTML.Replace(v))
		}
		base := key
		if i := strings.IndexByte(key, '['); i > 0 {
			base = key[:i]
		}
		if len(cleaned) > 1 && !arrayFields[base] {
			cleaned = cleaned[len(cleaned)-1:]
		}
		out[key] = cleaned
	}
	return out
}

// cleanJSONBody deep-cleans a JSON document: keys starting with "$" or
// containing "." are removed, string values are HTML-escaped. Returns
// ok=false when the body is not JSON we can rewrite; the handler's own
// decode then reports the malformed input.
func cleanJSONBody(body io.Reader) ([]byte, bool) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw, true
	}
	cleaned, err := json.Marshal(cleanValue(doc))
	if err != nil {
		return raw, true
	}
	return cleaned, true
}

func cleanValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
				continue
			}
			out[k] = cleanValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, inner := range val {
			out = append(out, cleanValue(inner))
		}
		return out
	case string:
		return escapeHTML.Replace(val)
	default:
		return v
	}
}
