package domain

import "errors"

var (
	ErrCallBusy          = errors.New("participant busy in another call")
	ErrCallAlreadyActive = errors.New("group call already active")
	ErrCallNotFound      = errors.New("call session not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrUserNotFound      = errors.New("user not found")
)
