package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"edudham/internal/xerrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the payload's validate tags and folds the first
// failure into the shared validation error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return xerrors.Validationf("field %q failed on the %q rule", f.Field(), f.Tag())
	}
	return xerrors.Validationf("%s", err.Error())
}
