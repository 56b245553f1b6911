package handlers

import "github.com/go-playground/validator/v10"

// validate is shared across handlers so struct-tag validation rules
// compile once at package init rather than per request.
var validate = validator.New()

func bindAndValidate(c bindable, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return validate.Struct(req)
}

type bindable interface {
	ShouldBindJSON(obj interface{}) error
}
