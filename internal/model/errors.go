package model

import (
	"errors"
)

var (
	ErrNoJobs          = errors.New("no jobs")
	ErrDuplicateJob    = errors.New("duplicate job")
	ErrDuplicateResult = errors.New("result already recorded")
	ErrMalformedUsage  = errors.New("malformed resource usage output")
)
