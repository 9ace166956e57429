package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrMalformedPayload", ErrMalformedPayload},
		{"ErrMissingArgument", ErrMissingArgument},
		{"ErrUnknownOperation", ErrUnknownOperation},
		{"ErrReauthorizationRequired", ErrReauthorizationRequired},
		{"ErrUpstreamAPI", ErrUpstreamAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestMissingArgumentError(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", &MissingArgumentError{Operation: "search", Key: "query"})

	assert.ErrorIs(t, err, ErrMissingArgument)
	assert.Contains(t, err.Error(), `"query"`)
	assert.Contains(t, err.Error(), `"search"`)

	var target *MissingArgumentError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "query", target.Key)
}

func TestUnknownOperationError(t *testing.T) {
	err := &UnknownOperationError{Name: "dance"}

	assert.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, `unknown operation "dance"`, err.Error())
}

func TestReauthorizationError(t *testing.T) {
	err := &ReauthorizationError{Integration: "gmail", Reason: "no refresh token"}

	assert.ErrorIs(t, err, ErrReauthorizationRequired)
	assert.Contains(t, err.Error(), "gmail")
	assert.Contains(t, err.Error(), "no refresh token")
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("boom")
	err := &UpstreamError{Service: "gmail", StatusCode: 500, Err: cause}

	assert.ErrorIs(t, err, ErrUpstreamAPI)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "gmail API error (status 500): boom", err.Error())

	noStatus := &UpstreamError{Service: "oauth2", Err: cause}
	assert.Equal(t, "oauth2 API error: boom", noStatus.Error())
}
