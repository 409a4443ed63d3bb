package ports

import "context"

// Prompter asks the user to confirm a destructive operation.
//
//go:generate go run go.uber.org/mock/mockgen -source=prompter.go -destination=mocks/mock_prompter.go -package=mocks
type Prompter interface {
	// Interactive reports whether the user can be asked.
	Interactive() bool

	// Confirm shows message and returns the user's answer.
	Confirm(ctx context.Context, message string) (bool, error)
}
