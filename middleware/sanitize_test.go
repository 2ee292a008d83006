package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanQueryDropsOperatorKeys(t *testing.T) {
	values := url.Values{
		"$where":     {"sleep(1000)"},
		"difficulty": {"easy"},
	}
	out := cleanQuery(values)

	assert.NotContains(t, out, "$where")
	assert.Equal(t, []string{"easy"}, out["difficulty"])
}

func TestCleanQueryCollapsesDuplicatesOutsideWhitelist(t *testing.T) {
	values := url.Values{
		"sort":     {"price", "name"},
		"duration": {"5", "9"},
	}
	out := cleanQuery(values)

	assert.Equal(t, []string{"name"}, out["sort"])
	assert.Equal(t, []string{"5", "9"}, out["duration"])
}

func TestCleanQueryWhitelistCoversComparisonKeys(t *testing.T) {
	values := url.Values{"price[gte]": {"100", "200"}}
	out := cleanQuery(values)

	assert.Equal(t, []string{"100", "200"}, out["price[gte]"])
}

func TestCleanQueryEscapesMarkup(t *testing.T) {
	values := url.Values{"name": {"<script>alert(1)</script>"}}
	out := cleanQuery(values)

	assert.Equal(t, []string{"&lt;script&gt;alert(1)&lt;/script&gt;"}, out["name"])
}

func TestCleanJSONBodyStripsOperatorAndDottedKeys(t *testing.T) {
	body := strings.NewReader(`{"name":"ok","$gt":"","a.b":1,"nested":{"$ne":null,"keep":"<b>x</b>"}}`)

	cleaned, ok := cleanJSONBody(body)
	require.True(t, ok)

	s := string(cleaned)
	assert.NotContains(t, s, "$gt")
	assert.NotContains(t, s, "a.b")
	assert.NotContains(t, s, "$ne")
	assert.Contains(t, s, `"name":"ok"`)
	assert.Contains(t, s, "&lt;b&gt;x&lt;/b&gt;")
}

func TestCleanValueLeavesQuotesAndAmpersandsAlone(t *testing.T) {
	// passwords and names with these characters must survive untouched
	assert.Equal(t, `pa"ss&word'`, cleanValue(`pa"ss&word'`))
}

func TestSanitizeCapsBodySize(t *testing.T) {
	big := strings.Repeat("a", MaxBodyBytes+1)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/tours", strings.NewReader(big))
	r.Header.Set("Content-Type", "text/plain")

	var readErr error
	handler := Sanitize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.Error(t, readErr)
}

func TestSanitizeLeavesMultipartBodiesUncapped(t *testing.T) {
	big := strings.Repeat("a", MaxBodyBytes+1)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/users/updateMe/photo", strings.NewReader(big))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	var readErr error
	handler := Sanitize(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.NoError(t, readErr)
}
