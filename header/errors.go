package header

// Error is a string type that implements the error interface.
type Error string

func (e Error) Error() string { return string(e) }

// Grammar marks header parse errors so callers can match them as a class.
func (Error) Grammar() bool { return true }

const (
	// ErrInvalidRoute is returned when a route entry fails to parse.
	ErrInvalidRoute Error = "invalid route"
	// ErrGarbageAtEnd is returned when unparsed input remains after a
	// route entry and its parameters.
	ErrGarbageAtEnd Error = "garbage at the end"
	// ErrInvalidParams is returned when the parameter section of a route
	// entry fails to tokenize.
	ErrInvalidParams Error = "invalid parameters"
)
