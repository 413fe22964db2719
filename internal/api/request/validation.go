package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Company registration numbers: uppercase alphanumeric with optional dashes,
// covering SIRET/NINEA-style identifiers.
var regNoRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{3,30}$`)

func init() {
	validate.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
		return regNoRegex.MatchString(fl.Field().String())
	})
}

func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
