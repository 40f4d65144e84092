package booking

import (
	"errors"
	"fmt"
	"strings"

	"stadium/internal/availability"
)

var (
	ErrInvalidRequest           = availability.ErrInvalidRequest
	ErrUnknownFacility          = errors.New("unknown facility")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrOverbooking              = errors.New("overbooking constraint violation")
	ErrNotFound                 = errors.New("booking not found")
	ErrNothingToUndo            = errors.New("no reorganization to undo")
)

// MaxBatchMessages caps how many failure messages a rejected batch carries.
const MaxBatchMessages = 3

// BatchRejectedError is returned when any candidate of a batch could not be
// placed. Nothing from the batch is persisted.
type BatchRejectedError struct {
	Messages []string
	Failed   int
	Total    int
}

func (e *BatchRejectedError) Error() string {
	msg := fmt.Sprintf("%d of %d bookings could not be placed: %s", e.Failed, e.Total, strings.Join(e.Messages, "; "))
	if e.Failed > len(e.Messages) {
		msg += fmt.Sprintf(" (and %d more)", e.Failed-len(e.Messages))
	}
	return msg
}

func (e *BatchRejectedError) Unwrap() error { return ErrInsufficientAvailability }
