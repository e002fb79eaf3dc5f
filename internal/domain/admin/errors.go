package admin

import "errors"

var (
	ErrCannotBanAdmin = errors.New("admins cannot be banned")
	ErrAlreadyBanned  = errors.New("user is already banned")
	ErrNotBanned      = errors.New("user is not banned")
	ErrInvalidRole    = errors.New("unknown role filter")
)
