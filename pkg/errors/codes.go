package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_003"
	ErrCodeTimeout        ErrorCode = "COMMON_004"
	ErrCodeSerialization  ErrorCode = "COMMON_005"
	ErrCodeCacheError     ErrorCode = "COMMON_006"
	ErrCodeConfigInvalid  ErrorCode = "COMMON_007"
	ErrCodeNotImplemented ErrorCode = "COMMON_008"
)

// Structure-source error codes.  These classify failures of the external
// structure providers tried by the conformer cascade; all of them are
// non-fatal per source and only drive the cascade forward.
const (
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeSourceParseError  ErrorCode = "SRC_003"
	ErrCodeSourceNotFound    ErrorCode = "SRC_004"
	ErrCodeStructureNotFound ErrorCode = "SRC_005" // cascade exhausted, fatal
	ErrCodeIdentifierInvalid ErrorCode = "SRC_006"
)

// Format-conversion error codes.
const (
	ErrCodeMalformedInput ErrorCode = "CONV_001" // no usable counts line, fatal
	ErrCodeAtomBlockShort ErrorCode = "CONV_002"
	ErrCodeBondRejected   ErrorCode = "CONV_003" // per-bond, non-fatal
)

// Group-detection error codes.
const (
	ErrCodePatternCompileFailed ErrorCode = "GRP_001" // per-pattern, non-fatal
	ErrCodePatternLibraryBad    ErrorCode = "GRP_002"
	ErrCodeDetectionFailed      ErrorCode = "GRP_003"
)

// CodeOK is the sentinel returned by GetCode for a nil error.
const CodeOK = ErrorCode("OK")

// CodeUnknown is returned by GetCode when no AppError is present in a chain.
const CodeUnknown = ErrorCode("UNKNOWN")

// Aliases used by the generic factory helpers.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeTimeout:        "operation timed out",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeCacheError:     "cache error",
	ErrCodeConfigInvalid:  "invalid configuration",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeSourceUnavailable: "structure source unavailable",
	ErrCodeSourceRateLimited: "structure source rate limited",
	ErrCodeSourceParseError:  "failed to parse structure source response",
	ErrCodeSourceNotFound:    "structure not found at source",
	ErrCodeStructureNotFound: "no structure found in any source",
	ErrCodeIdentifierInvalid: "invalid compound identifier",

	ErrCodeMalformedInput: "malformed molfile input",
	ErrCodeAtomBlockShort: "atom block shorter than declared count",
	ErrCodeBondRejected:   "bond line rejected",

	ErrCodePatternCompileFailed: "pattern failed to compile",
	ErrCodePatternLibraryBad:    "invalid pattern library",
	ErrCodeDetectionFailed:      "functional-group detection failed",
}

// httpStatusForCode maps ErrorCodes to the HTTP status an API surface should
// answer with.  Codes absent from the map report as 500.
var httpStatusForCode = map[ErrorCode]int{
	ErrCodeBadRequest:     400,
	ErrCodeNotFound:       404,
	ErrCodeTimeout:        504,
	ErrCodeConfigInvalid:  500,
	ErrCodeNotImplemented: 501,

	ErrCodeSourceUnavailable: 502,
	ErrCodeSourceRateLimited: 429,
	ErrCodeSourceNotFound:    404,
	ErrCodeStructureNotFound: 404,
	ErrCodeIdentifierInvalid: 400,

	ErrCodeMalformedInput: 400,

	ErrCodePatternLibraryBad: 500,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := httpStatusForCode[code]; ok {
		return status
	}
	return 500
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode, e.g. "SRC".
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
