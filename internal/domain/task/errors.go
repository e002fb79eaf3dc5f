package task

import "errors"

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrRequestNotFound         = errors.New("task request not found")
	ErrForbidden               = errors.New("forbidden")
	ErrOnlyFreelancers         = errors.New("only freelancers can do this")
	ErrNotFreelancer           = errors.New("target user is not a freelancer")
	ErrOwnTask                 = errors.New("cannot apply to your own task")
	ErrTaskNotOpen             = errors.New("task is not accepting freelancers")
	ErrTaskNotEditable         = errors.New("only open tasks can be changed")
	ErrAlreadyApplied          = errors.New("already applied to this task")
	ErrAlreadyInvited          = errors.New("freelancer already invited to this task")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidStatus           = errors.New("unknown task status")
	ErrInvalidDecision         = errors.New("decision must be accept or decline")
)
