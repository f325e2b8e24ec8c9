// Package forms binds submitted HTML forms and turns validation failures into
// per-field messages the templates can show next to each input.
package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/task-manager/internal/locale"
)

// NonField is the key for errors that do not belong to a single input.
const NonField = "__all__"

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	setupOnce       sync.Once
)

// Errors maps a form field name to its message.
type Errors map[string]string

func (e Errors) Add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// Validator is implemented by forms with rules that span several fields.
type Validator interface {
	Validate(errs Errors)
}

// Setup registers the custom rules and makes error field names follow the
// form tags. It runs once per process.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", usernameValidator)
	})
}

// Bind decodes the request body into form and validates it.
// The returned Errors is empty when the form is valid.
func Bind(c *gin.Context, form any) Errors {
	Setup()

	errs := Errors{}
	if err := c.ShouldBind(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs.Add(fe.Field(), message(fe))
			}
		} else {
			errs.Add(NonField, locale.T("form.submission"))
		}
	}

	if v, ok := form.(Validator); ok {
		v.Validate(errs)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return locale.T("form.required")
	case "max":
		return locale.T("form.max", "Param=="+fe.Param())
	case "email":
		return locale.T("form.email")
	case "username":
		return locale.T("form.username")
	case "oneof", "gt":
		return locale.T("form.choice")
	default:
		return locale.T("form.invalid")
	}
}

func usernameValidator(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}
