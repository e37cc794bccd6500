package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := WithMetadata(CodeGroupFull, "group 2 is full", map[string]string{"Group": "2"})
	wrapped := fmt.Errorf("apply join: %w", err)

	if !stderrors.Is(wrapped, New(CodeGroupFull, "")) {
		t.Fatalf("expected wrapped error to match CodeGroupFull")
	}
	if stderrors.Is(wrapped, New(CodeNotMember, "")) {
		t.Fatalf("did not expect wrapped error to match CodeNotMember")
	}
}

func TestGetCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeLockBusy, "roster busy"))
	if got := GetCode(err); got != CodeLockBusy {
		t.Fatalf("GetCode = %s, want %s", got, CodeLockBusy)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode = %s, want %s", got, CodeUnknown)
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeGroupFull, "full", map[string]string{"Group": "3"})
	meta := GetMetadata(fmt.Errorf("wrap: %w", err))
	if meta["Group"] != "3" {
		t.Fatalf("metadata Group = %q, want %q", meta["Group"], "3")
	}
}

func TestUnwrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk gone")
	err := Wrap(CodeStoreUnavailable, "kv get", cause)
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeCapacityListEmpty, http.StatusBadRequest},
		{CodeGroupFull, http.StatusConflict},
		{CodeNotAuthorized, http.StatusForbidden},
		{CodeStalePayload, http.StatusNotFound},
		{CodeLockBusy, http.StatusServiceUnavailable},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestIsRejection(t *testing.T) {
	if !CodeGroupFull.IsRejection() {
		t.Fatalf("expected GROUP_FULL to be a rejection")
	}
	if CodeLockBusy.IsRejection() {
		t.Fatalf("LOCK_BUSY is a coordination failure, not a rejection")
	}
	if CodeStoreUnavailable.IsRejection() {
		t.Fatalf("STORE_UNAVAILABLE is a coordination failure, not a rejection")
	}
}
