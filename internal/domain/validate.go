package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is a client-side input error. It is reported inline and
// never sent to the server.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return invalid("email", "Invalid email address.")
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(strings.TrimSpace(phone)) {
		return invalid("phoneNumber", "Phone number must be exactly 10 digits.")
	}
	return nil
}

func ValidateDate(field, value string) error {
	v := strings.TrimSpace(value)
	if len(v) != len(DateLayout) {
		return invalid(field, "Date must be in YYYY-MM-DD format.")
	}
	if _, err := ParseDate(v); err != nil {
		return invalid(field, "Date must be in YYYY-MM-DD format.")
	}
	return nil
}

func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return invalid("credentials", "Username or password cannot be empty.")
	}
	return nil
}

func ValidateRegistration(r Registration) error {
	for _, v := range []string{r.Username, r.Password, r.Email, r.FirstName, r.LastName, r.PhoneNumber, r.DateOfBirth} {
		if strings.TrimSpace(v) == "" {
			return invalid("registration", "All fields are required.")
		}
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePhone(r.PhoneNumber); err != nil {
		return err
	}
	return ValidateDate("dateOfBirth", r.DateOfBirth)
}

func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Username) == "" {
		return invalid("username", "Username is required.")
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return invalid("name", "First and last name are required.")
	}
	if err := ValidateEmail(p.Email); err != nil {
		return err
	}
	if err := ValidatePhone(p.PhoneNumber); err != nil {
		return err
	}
	return ValidateDate("dateOfBirth", p.BirthDate())
}

func ValidatePasswordChange(newPassword, confirm string) error {
	if strings.TrimSpace(newPassword) == "" {
		return invalid("newPassword", "New password cannot be empty.")
	}
	if newPassword != confirm {
		return invalid("confirmPassword", "Passwords do not match.")
	}
	return nil
}

func ValidatePasswordReset(username, email string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return invalid("reset", "Username and email are required.")
	}
	return ValidateEmail(email)
}

// ValidateNewTransaction also canonicalizes the category spelling.
func ValidateNewTransaction(t *NewTransaction) error {
	typ, err := ParseTransactionType(string(t.Type))
	if err != nil {
		return err
	}
	t.Type = typ
	if !t.Amount.IsPositive() {
		return invalid("amount", "Amount must be greater than zero.")
	}
	if t.Date.IsZero() {
		return invalid("date", "Date must be in YYYY-MM-DD format.")
	}
	cat, ok := CanonicalCategory(t.Type, t.Category)
	if !ok {
		if s, found := SuggestCategory(t.Type, t.Category); found {
			return invalid("category", "Unknown %s category %q, did you mean %q?", strings.ToLower(string(t.Type)), t.Category, s)
		}
		return invalid("category", "Unknown %s category %q.", strings.ToLower(string(t.Type)), t.Category)
	}
	t.Category = cat
	return nil
}
