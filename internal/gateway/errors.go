package gateway

import "errors"

// ErrNotAuthenticated marks operations that require a signed-in user.
// It is an expected branch, not a fault.
var ErrNotAuthenticated = errors.New("not authenticated")
