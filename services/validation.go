package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rpupo63/virtual-closet-backend/models"
)

// Validator wraps go-playground/validator with the wardrobe vocabularies and
// converts failures into errs.ApiErr values.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("clothing_type", func(fl validator.FieldLevel) bool {
		return models.IsClothingType(fl.Field().String())
	})
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return models.IsSeason(fl.Field().String())
	})
	// blank clears an optional color
	_ = v.RegisterValidation("clothing_color", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || models.IsColor(s)
	})

	return &Validator{v: v}
}

// Validate checks s and reports the first failing field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errs.NewBadRequestError(err.Error())
	}

	first := validationErrs[0]
	if first.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(first.Field())
	}
	return errs.NewInvalidFieldError(first.Field(), friendlyMessage(first))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "clothing_type":
		return fmt.Sprintf("%q is not a known clothing type", e.Value())
	case "season":
		return fmt.Sprintf("%q is not a known season", e.Value())
	case "clothing_color":
		return fmt.Sprintf("%q is not a known color", e.Value())
	case "hexcolor":
		return "must be a hex color such as #6366f1"
	case "datetime":
		return "must be a date formatted as " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
