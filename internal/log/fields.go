package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldSource        = "source"
	FieldIdentity      = "identity"
	FieldRecords       = "records"
	FieldColumns       = "columns"
	FieldCacheHit      = "cache_hit"
	FieldDimension     = "dimension"
	FieldValue         = "value"
	FieldFilter        = "filter"
	FieldReference     = "reference"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLoader    = "loader"
	ComponentSource    = "source"
	ComponentCache     = "cache"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentDashboard = "dashboard"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpLoad       = "load"
	OpFetch      = "fetch"
	OpParse      = "parse"
	OpInvalidate = "invalidate"
	OpSummary    = "summary"
	OpFilter     = "filter"
	OpDrillDown  = "drill_down"
	OpVisualize  = "visualize"
	OpImport     = "import"
	OpPublish    = "publish"
	OpConsume    = "consume"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithDataset adds the source identity and dataset shape
func (f LogFields) WithDataset(source, identity string, records, columns int) LogFields {
	f[FieldSource] = source
	f[FieldIdentity] = identity
	f[FieldRecords] = records
	f[FieldColumns] = columns
	return f
}

// WithDrillDown adds the entity selection of a drill-down view
func (f LogFields) WithDrillDown(dimension, value, filter string) LogFields {
	f[FieldDimension] = dimension
	f[FieldValue] = value
	f[FieldFilter] = filter
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
