package auth

import "errors"

var (
	EmailRequiredErr    = errors.New("email is required")
	InvalidEmailErr     = errors.New("invalid email format")
	PasswordRequiredErr = errors.New("password is required")
	WeakPasswordErr     = errors.New("password must be at least 8 characters long")
	InvalidPhoneErr     = errors.New("invalid phone number")
	TokenRequiredErr    = errors.New("token is required")
	NotSignedInErr      = errors.New("not signed in")
)
