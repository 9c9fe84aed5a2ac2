package dto

import "net/http"

// Error codes produced by the application layer. The HTTP layer only maps
// them to statuses; it never invents codes of its own beyond the generic
// input and internal ones.
const (
	ErrCodeInternal    = "INTERNAL"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
)

// errorCodeHTTPStatus maps application error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	// Caller input faults -> 400
	"VALIDATION":             http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_BARCODE":        http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_TITLE":          http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_ITEM":           http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_EXTERNAL_ID":    http.StatusBadRequest,
	"AMBIGUOUS_CUSTOMER_REF": http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,

	// Signature rejection -> 401
	"SIGNATURE_INVALID": http.StatusUnauthorized,

	// Missing resources -> 404
	"NOT_FOUND":          http.StatusNotFound,
	"CUSTOMER_NOT_FOUND": http.StatusNotFound,
	"PRODUCT_NOT_FOUND":  http.StatusNotFound,

	// Conflicts -> 409
	"ALREADY_EXISTS":   http.StatusConflict,
	"SYNC_IN_PROGRESS": http.StatusConflict,

	// Business rule violations -> 422
	"DISCOUNT_EXCEEDS_TOTAL": http.StatusUnprocessableEntity,

	// Upstream platform faults
	"REMOTE_COMMIT_FAILED": http.StatusBadGateway,
	"REMOTE_UNAVAILABLE":   http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
