package apperrors

// Error is the application error type used across the catalog engine. Errors
// form a chain: sentinel errors are declared once per package and derived with
// New, then annotated at the call site with Msg or Err. StatusCode carries the
// HTTP status the error maps to at the API surface.
type Error interface {
	Error() string
	ErrorAll() string
	New(msg string) Error
	Msg(msg string) Error
	MsgErr(msg string, err ...error) Error
	Err(err ...error) Error
	Unwrap() []error
	Is(target error) bool
	SetStatusCode(code int) Error
	StatusCode() int
}
