package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxJSONBody mirrors the 16kb JSON body limit of the public API.
const maxJSONBody = 16 << 10

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateAndDecode decodes the JSON body into payload and runs its validate tags.
// An empty body decodes into the zero value so optional payloads still validate.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if r.Body != nil {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
		if err := dec.Decode(payload); err != nil && !errors.Is(err, io.EOF) {
			return BadRequest("Invalid request body", err)
		}
	}
	return ValidateStruct(payload)
}

// ValidateStruct runs the validate tags of an already populated struct.
func ValidateStruct(payload interface{}) *AppError {
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return BadRequest("Invalid request", err)
		}
		details := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
		}
		return BadRequest("Validation failed", nil).WithErrors(details...)
	}
	return nil
}
