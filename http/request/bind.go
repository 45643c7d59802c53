// Package request decodes and validates JSON request bodies.
//
// Bind is the single entry point: unknown properties are rejected, the body
// is decoded into the caller's typed struct, and every validation rule that
// fails is reported at once as a 400 with a list of messages.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/godamri/helix-api/http/response"
)

// MaxBodyBytes caps the size of a bound body.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields the way clients spell them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Bind decodes the JSON body of r into dst, a pointer to a struct, and validates it.
// Client mistakes come back as *response.HTTPError; anything else is a programming error.
func Bind(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return response.BadRequest("request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return response.BadRequest(msgs)
		}
		return fmt.Errorf("request: cannot validate %T: %w", dst, err)
	}

	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		tooLarge   *http.MaxBytesError
		invalidDst *json.InvalidUnmarshalError
	)

	switch {
	case errors.Is(err, io.EOF):
		return response.BadRequest("request body must not be empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return response.BadRequest("request body is truncated")
	case errors.As(err, &syntaxErr):
		return response.BadRequest(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		return response.BadRequest([]string{fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)})
	case errors.As(err, &tooLarge):
		return response.NewHTTPError(http.StatusRequestEntityTooLarge, nil)
	case errors.As(err, &invalidDst):
		return fmt.Errorf("request: %w", err)
	}

	// encoding/json has no typed error for DisallowUnknownFields.
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return response.BadRequest([]string{fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`))})
	}

	return response.BadRequest("invalid request body")
}

func describe(fe validator.FieldError) string {
	name := fe.Field()

	switch fe.Tag() {
	case "required":
		return name + " should not be empty"
	case "email":
		return name + " must be an email"
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be longer than or equal to %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", name, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must not be greater than %s", name, fe.Param())
	case "uuid", "uuid4":
		return name + " must be a UUID"
	default:
		return fmt.Sprintf("%s failed the %s rule", name, fe.Tag())
	}
}
