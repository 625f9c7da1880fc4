package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Error(t *testing.T) {
	err := NewDatabaseError("Could not fetch catalog")
	assert.JSONEq(t, `{"code":"database_error","message":"Could not fetch catalog"}`, err.Error())

	err = NewBadRequestError("Invalid network", "ETHEREUM", "POLYGON")
	assert.JSONEq(t, `{"code":"bad_request","message":"Invalid network","details":"ETHEREUM, POLYGON"}`, err.Error())
}

func TestAPIError_Wrap(t *testing.T) {
	cause := fmt.Errorf("mapping failed: %w", assert.AnError)
	err := NewInternalError("Could not map catalog item").Wrap(cause)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NotContains(t, err.Error(), assert.AnError.Error())
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{name: "api error", err: NewValidationError("limit"), expected: ErrCodeValidationFailed},
		{name: "wrapped api error", err: fmt.Errorf("fetch: %w", NewServiceError("picks")), expected: ErrCodeServiceError},
		{name: "plain error", err: stderrors.New("boom"), expected: ""},
		{name: "nil", err: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeOf(tt.err))
		})
	}
}

func TestAPIError_IsClientError(t *testing.T) {
	assert.True(t, NewBadRequestError("Conflicting sale filters").IsClientError())
	assert.True(t, NewValidationError("limit").IsClientError())
	assert.False(t, NewInternalError("boom").IsClientError())
	assert.False(t, NewDatabaseError("Failed to query catalog").IsClientError())
	assert.False(t, NewServiceError("picks unavailable").IsClientError())
}

func TestNewError_EmptyDetailsAreOmitted(t *testing.T) {
	err := NewDatabaseError("Failed to query catalog")
	assert.Empty(t, err.Details)
	assert.JSONEq(t, `{"code":"database_error","message":"Failed to query catalog"}`, err.Error())
}
