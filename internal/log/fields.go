package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldYear       = "year"
	FieldMonth      = "month"
	FieldMerchant   = "merchant"
	FieldRecords    = "records"
	FieldAmount     = "amount_cents"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentCampus   = "campus"
	ComponentPipeline = "pipeline"
	ComponentRender   = "render"
	ComponentConfig   = "config"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpNormalize = "normalize"
	OpAnalyze   = "analyze"
	OpRender    = "render"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
