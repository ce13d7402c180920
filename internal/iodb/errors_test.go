package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("refused")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"connection",
			ConnectionError("localhost", 5432, "megantax", "postgres", cause),
			errcode.DBConnectionError},
		{"table check",
			TableExistsCheckError("mappings", cause),
			errcode.DBTableExistsCheckError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), "from")
		})
	}

	gnErr := NotConnectedError().(*gn.Error)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "not connected")
}
