package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	registerOnce    sync.Once
)

// RegisterValidators installs the custom binding tags (slug, username,
// notme, notfuture) on gin's validator and makes field errors use JSON
// names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		v.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
			return !strings.EqualFold(fl.Field().String(), "me")
		})
		v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(time.Now().Year())
		})
	})
}

// bindJSON decodes and validates the body into obj. On failure it writes a
// 400 with every field problem and returns false.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindWith(obj, binding.JSON)
	if errors.Is(err, io.EOF) {
		// empty body: report the missing required fields
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return true
	}
	c.JSON(http.StatusBadRequest, fieldErrors(err))
	return false
}

func fieldErrors(err error) map[string][]string {
	out := map[string][]string{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			field := fe.Field()
			if i := strings.IndexByte(field, '['); i >= 0 {
				field = field[:i]
			}
			out[field] = append(out[field], fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		out[typeErr.Field] = []string{typeMessage(typeErr.Type.Kind())}
	case errors.As(err, &syntaxErr):
		out["non_field_errors"] = []string{fmt.Sprintf("JSON parse error - %s", syntaxErr.Error())}
	default:
		out["non_field_errors"] = []string{"Invalid data."}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "slug":
		return `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notme":
		return `Username "me" is not allowed.`
	case "notfuture":
		return "Year cannot be in the future."
	case "oneof":
		return fmt.Sprintf(`"%v" is not a valid choice.`, fe.Value())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
		return "This field may not be blank."
	default:
		return "Invalid value."
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func typeMessage(k reflect.Kind) string {
	switch {
	case isNumber(k):
		return "A valid integer is required."
	case k == reflect.String:
		return "Not a valid string."
	case k == reflect.Slice:
		return "Expected a list of items."
	default:
		return "Invalid value."
	}
}
