package relationship

import "errors"

var (
	ErrAlreadyBlocked  = errors.New("user is already blocked")
	ErrNotBlocked      = errors.New("user is not blocked")
	ErrCannotBlockSelf = errors.New("cannot block yourself")
)
