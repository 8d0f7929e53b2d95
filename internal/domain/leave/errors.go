package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrForbidden            = errors.New("caller is not the reviewer of the current stage")
	ErrInvalidTransition    = errors.New("leave request is already approved or rejected")
	ErrEmptyChain           = errors.New("approval chain is empty")
	ErrNotVisible           = errors.New("leave request is not visible to caller")
)
