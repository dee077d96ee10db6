package authapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitdeneme/kit/internal/accounts"
	"github.com/kitdeneme/kit/internal/auth"
)

func TestStatusFor_RoundTripsThroughErrorFor(t *testing.T) {
	sentinels := []error{
		auth.ErrDuplicateUsername,
		auth.ErrDuplicateEmail,
		auth.ErrInvalidCredentials,
		auth.ErrNotSignedIn,
		auth.ErrThrottled,
		accounts.ErrVerificationInvalid,
	}
	for _, want := range sentinels {
		t.Run(want.Error(), func(t *testing.T) {
			_, code := StatusFor(fmt.Errorf("wrapped: %w", want))
			require.ErrorIs(t, ErrorFor(code), want)
		})
	}
}

func TestStatusFor_Statuses(t *testing.T) {
	status, _ := StatusFor(auth.ErrDuplicateEmail)
	require.Equal(t, http.StatusConflict, status)

	status, _ = StatusFor(auth.ErrNotSignedIn)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = StatusFor(auth.ErrThrottled)
	require.Equal(t, http.StatusTooManyRequests, status)

	status, code := StatusFor(errors.New("disk on fire"))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, CodeInternal, code)
	require.NoError(t, ErrorFor(code))
}
