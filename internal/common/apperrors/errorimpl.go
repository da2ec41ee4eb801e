package apperrors

// appError implements the apperrors.Error interface
type appError struct {
	msg        string
	base       Error
	wrapped    []error
	statuscode int
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the message followed by the messages of all wrapped errors.
func (e *appError) ErrorAll() string {
	if len(e.wrapped) == 0 {
		return e.msg
	}
	msg := e.msg
	sep := ": "
	for _, err := range e.wrapped {
		msg += sep + err.Error()
		sep = "; "
	}
	return msg
}

func (e *appError) Unwrap() []error {
	return e.wrapped
}

// New derives a new error from e. The derived error keeps e as its base so Is
// matches against the whole chain, and inherits the status code.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		statuscode: e.statuscode,
		base:       e,
	}
}

func (e *appError) Msg(msg string) Error {
	e.msg = msg
	return e
}

func (e *appError) MsgErr(msg string, err ...error) Error {
	e.msg = msg
	e.wrapped = append(e.wrapped, err...)
	return e
}

func (e *appError) Err(err ...error) Error {
	e.wrapped = append(e.wrapped, err...)
	return e
}

func (e *appError) Is(target error) bool {
	if e == target || e.base == target {
		return true
	}
	if e.base != nil && e.base.Is(target) {
		return true
	}
	for _, err := range e.wrapped {
		if err == target {
			return true
		}
	}
	return false
}

func (e *appError) SetStatusCode(code int) Error {
	e.statuscode = code
	return e
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}
