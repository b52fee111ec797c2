package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Usernames are URL path segments (/channels/:username), so only word
// characters are allowed.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// RegisterValidations installs the custom binding validators used by the
// request DTOs. Call once at startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
}
