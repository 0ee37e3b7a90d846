package adapter

import "errors"

// ErrIllegalState signals a broken composition graph: a notification for an
// unknown child, a foreign view type, a capacity overflow and similar.
var ErrIllegalState = errors.New("illegal adapter state")
