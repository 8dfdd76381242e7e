package inquiry

import (
	"errors"
	"regexp"

	"github.com/zhouzirui/contact-site/backend/internal/model/inquiry"
)

// ValidationError is returned for submissions the caller must fix.
// Message is safe to show to the client.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrFieldsRequired = &ValidationError{Reason: "missing_fields", Message: "All fields are required"}
	ErrInvalidEmail   = &ValidationError{Reason: "invalid_email", Message: "Invalid email address"}
)

// emailPattern treats vertical tab, Unicode separators and the BOM as
// whitespace, which RE2's \s does not.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// Validate checks a submission in the order the form expects:
// presence of every field first, then the email shape.
func Validate(sub inquiry.Submission) error {
	if sub.Name == "" || sub.Email == "" || sub.Company == "" || sub.Message == "" {
		return ErrFieldsRequired
	}
	if !emailPattern.MatchString(sub.Email) {
		return ErrInvalidEmail
	}
	return nil
}
