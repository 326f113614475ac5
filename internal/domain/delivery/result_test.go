package delivery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	ok := Delivered("msg-1")
	assert.True(t, ok.OK())
	assert.Equal(t, "msg-1", ok.Response())
	assert.NoError(t, ok.Err())

	failed := Failed(ErrNoRecipient)
	assert.False(t, failed.OK())
	assert.ErrorIs(t, failed.Err(), ErrNoRecipient)

	assert.Error(t, Failed(nil).Err())

	var zero Result
	assert.False(t, zero.OK())
	assert.False(t, errors.Is(zero.Err(), ErrNoRecipient))
}
