package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFromStoreNoDocuments(t *testing.T) {
	ae := FromStore(mongo.ErrNoDocuments, "tour")
	assert.Equal(t, KindNotFound, ae.Kind)
	assert.Equal(t, http.StatusNotFound, ae.Status)
	assert.Equal(t, "No tour found with that ID", ae.Message)
	assert.True(t, ae.Operational)
}

func TestFromStoreUnknownIsInternal(t *testing.T) {
	ae := FromStore(errors.New("connection reset"), "tour")
	assert.Equal(t, KindInternal, ae.Kind)
	assert.False(t, ae.Operational)
}

func TestFromTokenKeepsExpiryDistinguishable(t *testing.T) {
	assert.Equal(t, KindTokenExpired, FromToken(jwt.ErrTokenExpired).Kind)
	assert.Equal(t, KindInvalidToken, FromToken(errors.New("bad signature")).Kind)
}

func TestAsWrapsUnknownErrors(t *testing.T) {
	ae := As(errors.New("boom"))
	assert.Equal(t, KindInternal, ae.Kind)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)

	original := NotFound("gone")
	assert.Same(t, original, As(original))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteAPIOperational(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours/nope", nil)

	WriteAPI(rec, r, NotFound("No tour found with that ID"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, "No tour found with that ID", body["message"])
}

func TestWriteAPIFlattensInternalOutsideDebug(t *testing.T) {
	prev := Debug
	Debug = false
	defer func() { Debug = prev }()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)

	WriteAPI(rec, r, Internal(errors.New("password=hunter2 leaked detail")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Something went very wrong!", body["message"])
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestWriteAPIDebugExposesDetail(t *testing.T) {
	prev := Debug
	Debug = true
	defer func() { Debug = prev }()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)

	WriteAPI(rec, r, Internal(errors.New("dial tcp refused")))

	body := decodeBody(t, rec)
	assert.Equal(t, "dial tcp refused", body["error"])
}

func TestStatusWord(t *testing.T) {
	assert.Equal(t, "fail", statusWord(http.StatusBadRequest))
	assert.Equal(t, "fail", statusWord(http.StatusNotFound))
	assert.Equal(t, "error", statusWord(http.StatusInternalServerError))
	assert.Equal(t, "error", statusWord(http.StatusBadGateway))
}
