package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
)

// Validator wraps go-playground/validator with ShareIt's custom rules:
//
//	notblank  string has a non-whitespace character
//	future    time is after now
//
// and the BookingCreate window check. Failures come back as
// apperror.ValidationFailed naming the JSON field.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator builds a Validator. now is the clock used by the "future"
// rule; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	// Report JSON names ("itemId") instead of Go names ("ItemID").
	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = val.v.RegisterValidation("notblank", notBlank)
	_ = val.v.RegisterValidation("future", val.future)
	val.v.RegisterStructValidation(bookingWindow, BookingCreate{})

	return val
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func (val *Validator) future(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && t.After(val.now())
}

func bookingWindow(sl validator.StructLevel) {
	b := sl.Current().Interface().(BookingCreate)
	if b.Start == nil || b.End == nil {
		return
	}
	if !model.ValidWindow(*b.Start, *b.End) {
		sl.ReportError(b.End, "end", "End", "afterstart", "")
	}
}

// Struct validates s and returns the first failure.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.ValidationFailed("", err.Error())
	}
	fe := verrs[0]
	return apperror.ValidationFailed(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email address"
	case "future":
		return field + " must be in the future"
	case "afterstart":
		return "end must be after start"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// Decode reads a JSON body into dst and validates it.
func (val *Validator) Decode(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return val.Struct(dst)
}
