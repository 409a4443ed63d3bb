package logger

// ErrorEntry exposes errorEntry fields for tests.
type ErrorEntry = errorEntry

// Message returns the entry message.
func (e errorEntry) Message() string { return e.message }

// Metadata returns the entry metadata.
func (e errorEntry) Metadata() map[string]any { return e.metadata }

var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
