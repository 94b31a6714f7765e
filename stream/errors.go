package stream

import "errors"

// ErrNoSource means the feed has neither a websocket URL nor a fallback
// bar source to poll.
var ErrNoSource = errors.New("stream: no tick source configured")
