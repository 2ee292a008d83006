package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"roamly/globals"
	"roamly/logger"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// Debug controls whether internal detail is returned to callers.
var Debug = globals.Env("DEBUG", "") == "true"

// FromStore rewrites known mongo fault shapes into operational errors.
// Anything unrecognized comes back as Internal.
func FromStore(err error, resource string) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound(fmt.Sprintf("No %s found with that ID", resource))
	case mongo.IsDuplicateKeyError(err):
		return DuplicateKey("Duplicate field value. Please use another value!").Wrap(err)
	default:
		return Internal(err)
	}
}

// FromToken rewrites jwt parse failures, keeping expiry distinguishable
// from a bad signature.
func FromToken(err error) *Error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return TokenExpired().Wrap(err)
	}
	return InvalidToken().Wrap(err)
}

// FromValidator flattens struct validation failures into one message.
func FromValidator(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Internal(err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("Invalid value for %s", strings.ToLower(fe.Field())))
	}
	return Validation("Invalid input data. " + strings.Join(parts, ". ")).Wrap(err)
}

type apiPayload struct {
	Status  string `json:"status"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// WriteAPI is the centralized translator for the JSON surface. Handlers
// never format errors themselves.
func WriteAPI(w http.ResponseWriter, r *http.Request, err error) {
	ae := As(err)

	if !ae.Operational {
		logger.Log.Error().Err(ae.Err).Str("path", r.URL.Path).Str("kind", string(ae.Kind)).Msg("unexpected error")
	}

	payload := apiPayload{Status: statusWord(ae.Status), Message: ae.Message}
	if ae.Operational || Debug {
		payload.Kind = ae.Kind
	}
	if Debug && ae.Err != nil {
		payload.Detail = ae.Err.Error()
	}
	if !ae.Operational && !Debug {
		payload.Message = "Something went very wrong!"
	}

	writeJSON(w, ae.Status, payload)
}

func statusWord(status int) string {
	if status >= 500 {
		return "error"
	}
	return "fail"
}

func writeJSON(w http.ResponseWriter, status int, payload apiPayload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.Error().Err(err).Msg("failed to encode error payload")
	}
}
