package conformance

// ErrorCode classifies a validation error. The set is closed: consumers
// switch on these values to drive rendering and filtering, so new failure
// modes must map onto an existing code (VALIDATION_ERROR is the catch-all).
type ErrorCode string

const (
	// CodePathNotFound: no declared path template matched the request URL
	CodePathNotFound ErrorCode = "PATH_NOT_FOUND"
	// CodeMethodNotAllowed: the path matched but does not declare the method
	CodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	// CodeUnexpectedStatusCode: no response definition matched the status
	CodeUnexpectedStatusCode ErrorCode = "UNEXPECTED_STATUS_CODE"
	// CodeUnexpectedBody: a body was present where none is allowed (204)
	CodeUnexpectedBody ErrorCode = "UNEXPECTED_BODY"
	// CodeRequired: a required value is missing, empty, or null
	CodeRequired ErrorCode = "REQUIRED"
	// CodeTypeMismatch: the value's JSON type does not satisfy the schema type
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// CodeFormatViolation: pattern or named format (uuid, email, date-time) failed
	CodeFormatViolation ErrorCode = "FORMAT_VIOLATION"
	// CodeRangeViolation: minimum/maximum or minLength/maxLength exceeded
	CodeRangeViolation ErrorCode = "RANGE_VIOLATION"
	// CodeEnumViolation: the value is not one of the enumerated members
	CodeEnumViolation ErrorCode = "ENUM_VIOLATION"
	// CodeValidationError: unexpected failure during schema evaluation,
	// such as an invalid pattern regex or a malformed JSON body
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
)
