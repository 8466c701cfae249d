package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: quantity must be greater than zero", ErrValidation), http.StatusBadRequest, "validation failed: quantity must be greater than zero"},
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("%w: proforma belongs to another company", ErrForbidden), http.StatusForbidden, "forbidden: proforma belongs to another company"},
		{fmt.Errorf("%w: product", ErrNotFound), http.StatusNotFound, "resource not found: product"},
		{fmt.Errorf("%w: email already registered", ErrDuplicate), http.StatusConflict, "duplicate entry: email already registered"},
		{ErrTooMany, http.StatusTooManyRequests, "too many requests"},
		{errors.New("pg connection lost"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)

		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body MessageEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, tc.message, body.Message)
	}
}
