package services

import (
	"fmt"
	"unicode"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
)

// validatePassword applies the password policy to a new password and its
// confirmation. Messages are attached to the confirmation field.
func validatePassword(v *ValidationError, password, confirmation string) {
	if password == "" {
		v.add("password1", locale.T("form.required"))
		return
	}
	if confirmation == "" {
		v.add("password2", locale.T("form.required"))
		return
	}
	if password != confirmation {
		v.add("password2", locale.T("form.passwordMismatch"))
		return
	}

	if len([]rune(password)) < constants.MinPasswordLength {
		v.add("password2", locale.T("form.passwordTooShort", fmt.Sprintf("Min==%d", constants.MinPasswordLength)))
		return
	}
	if isNumeric(password) {
		v.add("password2", locale.T("form.passwordNumeric"))
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
