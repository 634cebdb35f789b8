package server

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pariz/gountries"
)

var (
	registerValidationsOnce sync.Once
	registerValidationsErr  error
	countries               = gountries.New()
)

// registerValidations adds the custom rules used in binding tags to gin's validator
func registerValidations() error {
	registerValidationsOnce.Do(func() {
		registerValidationsErr = addValidations(binding.Validator.Engine())
	})
	return registerValidationsErr
}

func addValidations(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return errors.New("binding validator is not a go-playground validator, custom rules cannot be registered")
	}
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("country", isCountryCode)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isCountryCode accepts ISO 3166-1 alpha-2 codes, case insensitive
func isCountryCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	_, err := countries.FindCountryByAlpha(strings.ToUpper(code))
	return err == nil
}
