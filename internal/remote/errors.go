package remote

import "errors"

// Error taxonomy for remote operations. Callers branch on these with
// errors.Is; anything else that goes wrong is wrapped in
// ErrOperationFailed.
var (
	// ErrNotFound means the document does not exist remotely.
	ErrNotFound = errors.New("resume not found")
	// ErrPermissionDenied means the document belongs to another user,
	// or no user could be resolved at all.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNetwork means the remote store could not be reached. Callers
	// treat this as "offline" and fall back to drafts.
	ErrNetwork = errors.New("network unavailable")
	// ErrOperationFailed covers everything else.
	ErrOperationFailed = errors.New("operation failed")
)
