package ports

import "go.trai.ch/rig/internal/core/domain"

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
	// SetLevel sets the minimum level that is written.
	SetLevel(level domain.LogLevel)
	// SetJSON switches between pretty and JSON output.
	SetJSON(enable bool)
}
