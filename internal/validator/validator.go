package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var (
	lowercase = regexp.MustCompile(`[a-z]`)
	uppercase = regexp.MustCompile(`[A-Z]`)
	number    = regexp.MustCompile(`\d`)
	userName  = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
)

func Email(email string) error {
	const maxlength = 64

	if len(email) > maxlength {
		return fmt.Errorf("long_email")
	}

	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("bad_format")
	}

	// the email tag accepts addresses without a top level domain
	at := strings.LastIndexByte(email, '@')
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("bad_format")
	}

	return nil
}

func Password(password string) error {
	length := len(password)
	if length < 6 {
		return fmt.Errorf("short_password")
	} else if length > 32 {
		return fmt.Errorf("long_password")
	}

	if !lowercase.MatchString(password) {
		return fmt.Errorf("no_lowercase")
	}
	if !uppercase.MatchString(password) {
		return fmt.Errorf("no_uppercase")
	}
	if !number.MatchString(password) {
		return fmt.Errorf("no_number")
	}
	return nil
}

func UserName(name string) error {
	length := len(name)
	if length < 2 {
		return fmt.Errorf("short_username")
	} else if length > 32 {
		return fmt.Errorf("long_username")
	}

	if !userName.MatchString(name) {
		return fmt.Errorf("bad_format")
	}
	return nil
}

// Struct checks the validate tags of v and reports the first failing field
// as "<field>_<tag>", e.g. "theme_oneof".
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if errors.As(err, &validateErrs) && len(validateErrs) > 0 {
		e := validateErrs[0]
		return fmt.Errorf("%s_%s", strings.ToLower(e.Field()), e.Tag())
	}
	return err
}
