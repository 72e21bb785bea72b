package metrics

const (
	// LabelMethod is the Prometheus label name for HTTP method.
	LabelMethod = "method"

	// LabelStatusCode is the Prometheus label name for HTTP status codes.
	LabelStatusCode = "code"

	// LabelStatus is the Prometheus label name for the outcome of a process
	// such as "success" or "error".
	LabelStatus = "status"

	// LabelUnit is the Prometheus label name for a retention unit
	// such as "days" or "weeks".
	LabelUnit = "unit"

	// LabelRepository is the Prometheus label name for a snapshot repository.
	LabelRepository = "repository"

	// LabelEvent is used by InstrumentHTTP() to describe the different stages of
	// an HTTP connection (DNS resolution, TLS handshake, etc).
	LabelEvent = "event"
)

// Values of LabelStatus.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
