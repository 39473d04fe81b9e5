package resource

import "errors"

var ErrNoResult = errors.New("stream closed without a result")

// MessageError turns an Error emission back into a Go error.
type MessageError string

func (e MessageError) Error() string { return string(e) }
