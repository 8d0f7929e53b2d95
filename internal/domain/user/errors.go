package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserInactive           = errors.New("user is inactive")
	ErrWorkSiteNotFound       = errors.New("work site not found")
	ErrWorkSiteNotAssigned    = errors.New("no work site assigned to user")
	ErrNoApprovalChain        = errors.New("no approval chain configured for user roles")
	ErrRoleNotHeld            = errors.New("caller does not hold the requested role")
	ErrInsufficientPermission = errors.New("insufficient permissions")
)
