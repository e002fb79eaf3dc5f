package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidRecipient     = errors.New("invalid notification recipient")
	ErrTitleRequired        = errors.New("notification title is required")
)
