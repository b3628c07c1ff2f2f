package core

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid expense: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// Money validates as its cent value so numeric tags apply.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if m, ok := field.Interface().(Money); ok {
				return m.Cents
			}
			return nil
		}, Money{})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func validateStruct(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = fieldMessage(field, fe.Tag(), fe.Param())
	}
	return out
}

func fieldMessage(field, tag, param string) string {
	label := strings.ToUpper(field[:1]) + field[1:]
	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "gt":
		return label + " must be greater than 0"
	case "category":
		return fmt.Sprintf("%s must be one of %s", label, joinCategories())
	default:
		return label + " is invalid"
	}
}

func joinCategories() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
