package models

import "errors"

// Business-rule errors. Each one is expected, detected locally and
// surfaced to the end user with a 400-class status; none is retried.
var (
	ErrMissingField       = errors.New("required field is missing")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUnknownSymbol      = errors.New("symbol does not exist")
	ErrInvalidQuantity    = errors.New("share count must be a positive number")
	ErrInsufficientFunds  = errors.New("not enough cash for this purchase")
	ErrInsufficientShares = errors.New("cannot sell more shares than you own")
	ErrQuoteUnavailable   = errors.New("quote is currently unavailable")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
)
