package logger

// 统一的日志字段命名常量
const (
	FieldTraceID = "traceId"
	FieldUID     = "uid"
	// FieldAction 操作类型字段
	FieldAction   = "action"
	FieldEntryID  = "entryId"
	FieldMode     = "mode"
	FieldVersion  = "version"
	FieldDuration = "duration"
	FieldMethod   = "method"
	FieldError    = "error"
	// FieldCount 数量字段
	FieldCount = "count"
	FieldTask  = "task"
)
