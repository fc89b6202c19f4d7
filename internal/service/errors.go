package service

import "errors"

var (
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrExpenseNotFound is returned when the expense does not exist or belongs to another user.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrPasswordReused is returned when a new password matches a remembered one.
	ErrPasswordReused = errors.New("password was used recently")
	// ErrPasswordTooShort is returned for passwords below MinPasswordLength.
	ErrPasswordTooShort = errors.New("password is too short")
)
