package api

import (
	"alcyxob/workout-tracker/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validator report fields by their JSON names, so
// namespaces read like exercises[0].numberSets instead of Go field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates the request body into dst. Every failure is
// returned as a service.Validation error carrying field paths.
func bindJSON(c *gin.Context, dst any) error {
	useJSONFieldNames()
	if err := c.ShouldBindJSON(dst); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var (
		verrs    validator.ValidationErrors
		typeErr  *json.UnmarshalTypeError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make([]service.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, service.FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: ruleMessage(fe),
			})
		}
		return service.Validation(fields...)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return service.Validation(service.FieldError{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	case errors.As(err, &tooLarge):
		return service.Validation(service.FieldError{Field: "body", Message: "request body too large"})
	case errors.Is(err, io.EOF):
		return service.Validation(service.FieldError{Field: "body", Message: "request body is empty"})
	default:
		return service.Validation(service.FieldError{Field: "body", Message: "malformed JSON"})
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
