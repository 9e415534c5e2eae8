// Package inputval validates request structs with go-playground/validator tags
// and turns failures into human-readable messages.
//
// Fields declare rules with `validate:"..."` and a display name with `label:"..."`:
//
//	type signupInput struct {
//	    Name  string `validate:"required,max=100" label:"Name"`
//	    Email string `validate:"required,email" label:"Email"`
//	}
//
// Custom rules: objectid (24-char hex id), httpurl (absolute http/https URL),
// role (user|admin|superadmin), payment (a known payment method).
package inputval

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/spothub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			return IsHTTPURL(fl.Field().String())
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseRole(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("payment", func(fl validator.FieldLevel) bool {
			return IsPaymentMethod(fl.Field().String())
		})
	})
	return v
}

// Validate checks s against its struct tags.
func Validate(s any) Result {
	err := instance().Struct(s)
	if err == nil {
		return Result{}
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return Result{Errors: []FieldError{{Message: "Invalid input."}}}
	}
	out := Result{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Errors = append(out.Errors, FieldError{Field: fe.StructField(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "objectid":
		return label + " must be a valid id."
	case "httpurl", "url":
		return label + " must be a valid http(s) URL."
	case "role":
		return label + " must be one of: user, admin, superadmin."
	case "payment":
		return label + " must be one of: " + strings.Join(paymentMethods, ", ") + "."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return label + " must be at least " + bound(fe) + "."
	case "max", "lte":
		return label + " must be at most " + bound(fe) + "."
	}
	return label + " is invalid."
}

// bound renders a min/max param with a unit that fits the field kind.
func bound(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " items"
	}
	return fe.Param()
}

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return instance().Var(s, "email") == nil
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var paymentMethods = []string{
	models.PaymentCard,
	models.PaymentCash,
	models.PaymentBankTransfer,
	models.PaymentWallet,
}

// IsPaymentMethod reports whether s is a known payment method.
func IsPaymentMethod(s string) bool {
	for _, m := range paymentMethods {
		if s == m {
			return true
		}
	}
	return false
}
