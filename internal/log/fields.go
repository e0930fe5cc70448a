package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSnapshotID = "snapshot_id"
	FieldCategory   = "category"
	FieldTxCount    = "transaction_count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentIngest  = "ingest"
	ComponentGenAI   = "genai"
)

// Operations defines standard operation names
const (
	OpIngest   = "ingest"
	OpFinish   = "finish"
	OpList     = "list"
	OpDelete   = "delete"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
