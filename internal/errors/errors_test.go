package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = New("sentinel")

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestWrapKeepsChain(t *testing.T) {
	err := Wrapf(Wrap(errSentinel, "inner"), "outer %d", 1)

	assert.True(t, Is(err, errSentinel))
	assert.Equal(t, "outer 1: inner: sentinel", err.Error())
	assert.Contains(t, fmt.Sprintf("%+v", err), "TestWrapKeepsChain")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, WithStack(nil))
}

func TestAsFindsTypedError(t *testing.T) {
	err := WithStack(&codedError{code: 7})

	var target *codedError
	assert.True(t, As(err, &target))
	assert.Equal(t, 7, target.code)
	assert.EqualError(t, Errorf("bad %s", "input"), "bad input")
}
