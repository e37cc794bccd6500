package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Roster construction errors
	CodeCapacityListEmpty Code = "CAPACITY_LIST_EMPTY"
	CodeCapacityNegative  Code = "CAPACITY_NEGATIVE"
	CodeTooManyGroups     Code = "TOO_MANY_GROUPS"

	// Mutation rejections
	CodeAlreadyMember         Code = "ALREADY_MEMBER"
	CodeNotMember             Code = "NOT_MEMBER"
	CodeConflictingMembership Code = "CONFLICTING_MEMBERSHIP"
	CodeGroupFull             Code = "GROUP_FULL"
	CodeSameGroup             Code = "SAME_GROUP"
	CodeNotAuthorized         Code = "NOT_AUTHORIZED"
	CodeGroupIndexInvalid     Code = "GROUP_INDEX_INVALID"

	// Coordination errors
	CodeLockBusy         Code = "LOCK_BUSY"
	CodeStalePayload     Code = "STALE_PAYLOAD"
	CodeSessionExpired   Code = "SESSION_EXPIRED"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes for webhook error
// responses. Interaction rejections are still delivered as ephemeral
// notices on a 200 response; this mapping covers the non-interaction
// surfaces (health, command registration).
func (c Code) HTTPStatus() int {
	switch c {
	// Bad input
	case CodeCapacityListEmpty,
		CodeCapacityNegative,
		CodeTooManyGroups,
		CodeGroupIndexInvalid:
		return http.StatusBadRequest

	// State doesn't allow the operation
	case CodeAlreadyMember,
		CodeNotMember,
		CodeConflictingMembership,
		CodeGroupFull,
		CodeSameGroup,
		CodeSessionExpired:
		return http.StatusConflict

	case CodeNotAuthorized:
		return http.StatusForbidden

	case CodeNotFound, CodeStalePayload:
		return http.StatusNotFound

	case CodeLockBusy, CodeStoreUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// IsRejection reports whether the code is a business-rule rejection, as
// opposed to a coordination or infrastructure failure. Rejections get a
// specific actor-only explanation; coordination failures get a generic
// busy message.
func (c Code) IsRejection() bool {
	switch c {
	case CodeAlreadyMember,
		CodeNotMember,
		CodeConflictingMembership,
		CodeGroupFull,
		CodeSameGroup,
		CodeNotAuthorized,
		CodeGroupIndexInvalid,
		CodeSessionExpired,
		CodeCapacityListEmpty,
		CodeCapacityNegative,
		CodeTooManyGroups:
		return true
	}
	return false
}
