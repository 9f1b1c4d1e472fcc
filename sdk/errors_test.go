package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorUnwrapsToSentinel(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{404, ErrNotFound},
		{452, ErrTokenMissing},
		{461, ErrTransactionInProgress},
		{478, ErrInsufficientQuantity},
		{486, ErrActionInProgress},
		{490, ErrAlreadyAtDestination},
		{492, ErrInsufficientGold},
		{493, ErrTooLowLevel},
		{496, ErrTooLowLevel},
		{497, ErrInventoryFull},
		{498, ErrCharacterNotFound},
		{499, ErrCharacterOnCooldown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := &APIError{StatusCode: tt.status, Method: "POST", Endpoint: "my/Birb/action/move"}
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestAPIErrorServerErrorUnwrap(t *testing.T) {
	err := &APIError{StatusCode: 503, Method: "GET", Endpoint: "items"}
	assert.ErrorIs(t, err, ErrServerError)
}

func TestAPIErrorPreservesContext(t *testing.T) {
	body := json.RawMessage(`{"x":5,"y":3}`)
	err := &APIError{
		StatusCode: 486,
		Method:     "POST",
		Endpoint:   "my/Birb/action/move",
		Body:       body,
		Message:    "An action is already in progress",
	}

	msg := err.Error()
	assert.Contains(t, msg, "486")
	assert.Contains(t, msg, "my/Birb/action/move")
	assert.Contains(t, msg, `{"x":5,"y":3}`)
}

func TestAPIErrorRetryability(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 500}).IsRetryable())
	assert.True(t, (&APIError{StatusCode: 503}).IsRetryable())
	assert.True(t, (&APIError{StatusCode: 429}).IsRetryable())

	// Game-rule rejections must never be retried: replaying a craft or a
	// trade could double its effect.
	assert.False(t, (&APIError{StatusCode: 478}).IsRetryable())
	assert.False(t, (&APIError{StatusCode: 490}).IsRetryable())
	assert.False(t, (&APIError{StatusCode: 499}).IsRetryable())
	assert.False(t, (&APIError{StatusCode: 452}).IsRetryable())
}

func TestAPIErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, (&APIError{StatusCode: 452}).Type())
	assert.Equal(t, ErrorTypeServer, (&APIError{StatusCode: 502}).Type())
	assert.Equal(t, ErrorTypeGame, (&APIError{StatusCode: 497}).Type())
}

func TestNetworkErrorIsRetryable(t *testing.T) {
	err := &NetworkError{Op: "GET items", Err: errors.New("connection refused")}
	assert.True(t, IsRetryable(err))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", err)))
}

func TestIsRetryableClassification(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(ErrTimeout))
	assert.True(t, IsRetryable(ErrServerError))
	assert.True(t, IsRetryable(&decodeError{op: "GET items", err: errors.New("unexpected EOF")}))
	assert.False(t, IsRetryable(ErrInventoryFull))
	assert.False(t, IsRetryable(errors.New("some other error")))
}

func TestHelperPredicates(t *testing.T) {
	notFound := &APIError{StatusCode: 404}
	require.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(ErrBankFull))

	atDest := &APIError{StatusCode: 490}
	assert.True(t, IsAlreadyAtDestination(atDest))

	assert.True(t, IsFatal(&APIError{StatusCode: 452}))
	assert.False(t, IsFatal(&APIError{StatusCode: 499}))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "network", ErrorTypeNetwork.String())
	assert.Equal(t, "game", ErrorTypeGame.String())
	assert.Equal(t, "auth", ErrorTypeAuth.String())
	assert.Equal(t, "unknown", ErrorTypeUnknown.String())
}
