package chat

import "errors"

var (
	ErrInvalidReceiver    = errors.New("receiver_id is required")
	ErrSelfMessage        = errors.New("cannot send a message to yourself")
	ErrEmptyMessage       = errors.New("message needs content or an attachment")
	ErrContentTooLong     = errors.New("message content is too long")
	ErrTooManyAttachments = errors.New("too many attachments")
	ErrInvalidAttachment  = errors.New("attachment url is required")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrBlocked            = errors.New("messaging between these users is blocked")
)
