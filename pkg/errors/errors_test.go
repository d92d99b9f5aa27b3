package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, CodeOf(NotFound("appointment", nil)))
	assert.Equal(t, ErrCodeSlotUnavailable, CodeOf(SlotUnavailable("taken")))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while booking: %w", SlotUnavailable("taken"))
	assert.True(t, IsCode(err, ErrCodeSlotUnavailable))
	assert.False(t, IsCode(err, ErrCodeConflict))
	assert.Equal(t, ErrCodeSlotUnavailable, CodeOf(err))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NotFound("appointment", cause)
	assert.Contains(t, err.Error(), "appointment not found")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestIsCodeOnNil(t *testing.T) {
	assert.False(t, IsCode(nil, ErrCodeNotFound))
}
