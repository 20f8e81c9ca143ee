package validator

import (
	"testing"

	"devicerelay/internal/domain/entity"
	domainerrors "devicerelay/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid identity", func(t *testing.T) {
		err := v.Validate(&entity.DeviceIdentity{ID: "a", Name: "Laptop"})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		err := v.Validate(&entity.DeviceIdentity{})
		require.Error(t, err)

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
		assert.Contains(t, appErr.Details(), "ID: required")
		assert.Contains(t, appErr.Details(), "Name: required")
	})

	t.Run("rule parameter reported", func(t *testing.T) {
		long := make([]byte, 200)
		for i := range long {
			long[i] = 'x'
		}

		err := v.Validate(&entity.DeviceIdentity{ID: string(long), Name: "n"})

		var appErr domainerrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "ID: max=128", appErr.Details())
	})
}
