package archive

import "errors"

var (
	ErrNotFound        = errors.New("archive snapshot not found")
	ErrInvalidWeek     = errors.New("week must be YYYY-MM-DD")
	ErrUnknownFacility = errors.New("unknown facility")
)
