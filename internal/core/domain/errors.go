package domain

import "errors"

var (
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrAlreadyValidated = errors.New("ticket already validated")
	ErrTicketExpired    = errors.New("ticket expired")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicateTicket  = errors.New("ticket id already exists")
)
