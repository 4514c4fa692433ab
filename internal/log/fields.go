package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldEmployeeID = "employee_id"
	FieldSource     = "source"
	FieldApplied    = "applied"
	FieldErrorCount = "error_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentService = "service"
	ComponentWorker  = "worker"
	ComponentAMQP    = "amqp"
	ComponentReport  = "report"
	ComponentCache   = "cache"
)
