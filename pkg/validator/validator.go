// Package validator wraps go-playground struct validation with a custom
// rule for non-nil UUID foreign keys.
package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse describes a single failed field.
type ErrorResponse struct {
	FailedField string
	Tag         string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// uuid.UUID zero values pass "required", so FK fields use this instead.
	_ = v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct runs the validate tags on data and returns one entry per
// failed field, or nil when everything passes.
func ValidateStruct(data interface{}) []*ErrorResponse {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []*ErrorResponse
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, &ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
		})
	}
	return out
}
