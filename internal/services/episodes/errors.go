package episodes

import "errors"

// ErrDone is returned by Next once the stream is exhausted
var ErrDone = errors.New("no more pages")
