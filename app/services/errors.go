package services

import "errors"

// ErrorCode identifies a business-rule failure. Codes are stable and are
// what the presentation layer switches on.
type ErrorCode string

const (
	// Not found
	CodeSchoolYearNotFound ErrorCode = "SCHOOL_YEAR_NOT_FOUND"
	CodeClassroomNotFound  ErrorCode = "CLASSROOM_NOT_FOUND"
	CodeClassGroupNotFound ErrorCode = "CLASSGROUP_NOT_FOUND"
	CodeStudentNotFound    ErrorCode = "STUDENT_NOT_FOUND"
	CodePaymentNotFound    ErrorCode = "PAYMENT_NOT_FOUND"

	// Duplicates
	CodeSchoolYearAlreadyExists ErrorCode = "SCHOOL_YEAR_ALREADY_EXISTS"
	CodeClassroomDuplicate      ErrorCode = "CLASSROOM_DUPLICATE"
	CodeClassGroupDuplicate     ErrorCode = "CLASSGROUP_DUPLICATE"
	CodeDuplicateMatricule      ErrorCode = "STUDENT_DUPLICATE_MATRICULE"
	CodeDuplicateReference      ErrorCode = "PAYMENT_REFERENCE_DUPLICATE"

	// Validation
	CodeInvalidDateRange        ErrorCode = "SCHOOL_YEAR_INVALID_DATES"
	CodeClassroomInvalidPayload ErrorCode = "CLASSROOM_INVALID_PAYLOAD"
	CodeClassGroupInvalidName   ErrorCode = "CLASSGROUP_INVALID_PAYLOAD"
	CodeInvalidAmount           ErrorCode = "PAYMENT_INVALID_AMOUNT"
	CodeInvalidDiscount         ErrorCode = "PAYMENT_INVALID_DISCOUNT"
	CodeDiscountTooHigh         ErrorCode = "PAYMENT_DISCOUNT_TOO_HIGH"
	CodeInvalidType             ErrorCode = "PAYMENT_INVALID_TYPE"
	CodeInvalidMethod           ErrorCode = "PAYMENT_INVALID_METHOD"
	CodeInvalidStatus           ErrorCode = "PAYMENT_INVALID_STATUS"
	CodeStatusConflict          ErrorCode = "PAYMENT_STATUS_CONFLICT"
	CodePendingAmountConflict   ErrorCode = "PAYMENT_PENDING_AMOUNT"
	CodeStudentRequired         ErrorCode = "PAYMENT_STUDENT_REQUIRED"

	// Referential mismatches
	CodeClassroomYearMismatch    ErrorCode = "CLASSROOM_SCHOOLYEAR_MISMATCH"
	CodeClassGroupYearMismatch   ErrorCode = "CLASSGROUP_SCHOOLYEAR_MISMATCH"
	CodeClassGroupClassMismatch  ErrorCode = "CLASSGROUP_CLASSROOM_MISMATCH"
	CodeActiveSchoolYearRequired ErrorCode = "ACTIVE_SCHOOL_YEAR_REQUIRED"
	CodeSchoolYearRequired       ErrorCode = "SCHOOL_YEAR_REQUIRED"

	// State conflicts
	CodeActiveYearDeleteForbidden ErrorCode = "SCHOOL_YEAR_ACTIVE_DELETE_FORBIDDEN"
	CodeClassroomHasGroups        ErrorCode = "CLASSROOM_HAS_GROUPS"
	CodePaymentDeleteRestricted   ErrorCode = "PAYMENT_DELETE_RESTRICTED"
)

// Error is a typed business failure. Any failure aborts the enclosing
// transaction; nothing is partially persisted.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the business error code from err, or "" when err is
// not a service error.
func CodeOf(err error) ErrorCode {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given business error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
