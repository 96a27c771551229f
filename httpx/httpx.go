// Package httpx holds the response and request helpers shared by every handler:
// JSON encoding, apperror-based error responses, body decoding with validation,
// and path parameter parsing.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/logging"
)

// maxBodyBytes bounds request bodies; the API never needs more than a few fields.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// maxbytes bounds the encoded length of a string, e.g. bcrypt's 72 byte input limit.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// MessageResponse is the body of endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message" example:"Tag deleted."`
}

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful can reach the client now.
		logrus.WithError(err).Error("failed to encode response")
	}
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError converts err into an apperror response. Errors that are not AppErrors
// become a generic 500; the underlying cause of any 5xx is logged and never sent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("An unexpected error occurred.", err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), logrus.StandardLogger()).
			WithError(appErr.Err).
			WithField("error_type", appErr.Type).
			Error(appErr.Message)
	}
	WriteJSON(w, status, appErr.ToResponse())
}

// DecodeAndValidate decodes a JSON body into dst and runs struct validation on it.
// Unknown fields are rejected.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewBadRequestError("Request body must not be empty.", err)
		}
		return apperror.NewBadRequestError("Invalid request body: "+err.Error(), err)
	}
	return Validate(dst)
}

// Validate runs the shared validator and maps failures to a validation AppError.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewBadRequestError("Invalid request body.", err)
	}
	details := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperror.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return apperror.NewValidationError("Request validation failed.", details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "min":
		return "Must be at least " + fe.Param() + "."
	case "max":
		return "Must be at most " + fe.Param() + "."
	case "maxbytes":
		return "Must be at most " + fe.Param() + " bytes long."
	case "lt":
		return "Must be less than " + fe.Param() + "."
	case "gte":
		return "Must be greater than or equal to " + fe.Param() + "."
	case "gt":
		return "Must be greater than " + fe.Param() + "."
	case "email":
		return "Not a valid email address."
	default:
		return "Invalid value."
	}
}

// PathID parses a positive integer URL parameter. Anything else is reported as
// not found, matching how an unmatched route would answer.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NewNotFoundError("The requested URL was not found on the server.", err)
	}
	return id, nil
}
