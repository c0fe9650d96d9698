package auth

import "strings"

const minPasswordLength = 8

// ValidateEmail checks the minimal shape of an address; the backend remains
// the authority on deliverability.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return EmailRequiredErr
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return InvalidEmailErr
	}
	return nil
}

// ValidateLoginPassword rejects only empty passwords; existing accounts may
// predate the current strength rules.
func ValidateLoginPassword(password string) error {
	if password == "" {
		return PasswordRequiredErr
	}
	return nil
}

// ValidateNewPassword enforces the strength rule applied at registration and
// password reset.
func ValidateNewPassword(password string) error {
	if password == "" {
		return PasswordRequiredErr
	}
	if len(password) < minPasswordLength {
		return WeakPasswordErr
	}
	return nil
}

// ValidatePhone accepts an optional phone number of at least 8 digits,
// allowing common separator characters.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
		default:
			return InvalidPhoneErr
		}
	}
	if digits < 8 {
		return InvalidPhoneErr
	}
	return nil
}
