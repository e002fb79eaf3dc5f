package rating

import "errors"

var (
	ErrTaskNotCompleted = errors.New("task is not completed")
	ErrNotParticipant   = errors.New("only task participants can rate")
	ErrAlreadyRated     = errors.New("task already rated by this user")
	ErrInvalidScore     = errors.New("score must be between 1 and 5")
)
