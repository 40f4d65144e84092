package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type window struct {
	Start string `validate:"required,clock"`
	Count int    `validate:"min=1"`
}

func TestValidate_Clock(t *testing.T) {
	assert.Nil(t, Validate(window{Start: "09:30", Count: 1}))

	errs := Validate(window{Start: "9:30", Count: 1})
	assert.Equal(t, "clock", errs["window.Start"])

	errs = Validate(window{Start: "", Count: 0})
	assert.Equal(t, "required", errs["window.Start"])
	assert.Equal(t, "min", errs["window.Count"])
}
