package export

import "errors"

var ErrInvalidWeek = errors.New("week must be YYYY-MM-DD")
