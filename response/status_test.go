package response_test

import (
	"testing"

	"github.com/adamwoolhether/geminer/response"
)

func TestStatus_Group(t *testing.T) {
	testCases := []struct {
		status response.Status
		exp    response.Group
	}{
		{status: response.StatusSensitiveInput, exp: response.GroupInput},
		{status: response.StatusSuccess, exp: response.GroupSuccess},
		{status: response.StatusPermanentRedirect, exp: response.GroupRedirect},
		{status: response.StatusSlowDown, exp: response.GroupTemporaryFailure},
		{status: response.StatusBadRequest, exp: response.GroupPermanentFailure},
		{status: response.StatusCertificateNotValid, exp: response.GroupCertificateRequired},
		{status: 45, exp: response.GroupUnknown},
		{status: 70, exp: response.GroupUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.status.Code(), func(t *testing.T) {
			if got := tc.status.Group(); got != tc.exp {
				t.Errorf("exp group %d, got %d", tc.exp, got)
			}
		})
	}
}

func TestStatus_String(t *testing.T) {
	if got, exp := response.StatusNotFound.String(), "51 Not Found"; got != exp {
		t.Errorf("exp %q, got %q", exp, got)
	}
	if got, exp := response.Status(9).String(), "09 Unknown"; got != exp {
		t.Errorf("exp %q, got %q", exp, got)
	}
}
