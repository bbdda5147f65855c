package lifecycle

import "errors"

// ErrNothingSelected is returned by batch operations given an empty id set.
// Callers must be able to tell a malformed request apart from a batch where
// zero items happened to succeed.
var ErrNothingSelected = errors.New("no photos selected")
