package suite

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalErrorWraps(t *testing.T) {
	cause := errors.New("judge unavailable")
	err := &InternalError{Msg: "failed to create run baseline", Err: cause}

	assert.Equal(t, "failed to create run baseline: judge unavailable", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := &InternalError{Msg: "something broke"}
	assert.Equal(t, "something broke", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestErrorTypesAreDistinct(t *testing.T) {
	var wrapped error = fmt.Errorf("context: %w", &UserValueError{Msg: "count mismatch"})

	var valueErr *UserValueError
	assert.True(t, errors.As(wrapped, &valueErr))
	assert.Equal(t, "count mismatch", valueErr.Msg)

	var inputErr *UserInputError
	assert.False(t, errors.As(wrapped, &inputErr))
	var internalErr *InternalError
	assert.False(t, errors.As(wrapped, &internalErr))
}
