package httperr

import "errors"

// Codes shared between use cases and handlers.
const (
	CodeNotFound          = "not_found"
	CodeServiceNotFound   = "service_not_found"
	CodeWorkerNotFound    = "worker_not_found"
	CodeBookingNotFound   = "booking_not_found"
	CodeUserNotFound      = "user_not_found"
	CodeSlotTaken         = "slot_taken"
	CodeSlotInPast        = "slot_in_past"
	CodeInvalidDate       = "invalid_date_or_time"
	CodeInvalidStatus     = "invalid_status"
	CodeInvalidTransition = "invalid_transition"
	CodeForbidden         = "forbidden"
	CodeEmailTaken        = "email_taken"
	CodeInvalidRole       = "invalid_role"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code of err when it is a BusinessError.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
