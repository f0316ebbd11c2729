package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"content_hub/internal/storage"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateModel runs the struct's validate tags before a write.
func validateModel(m any) error {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &storage.ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "cannot be empty"
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		msg = "must be a valid email"
	}

	return &storage.ValidationError{Field: fe.Field(), Message: msg}
}
