package application

import (
	"context"
	"fmt"
)

// Notifier tells the operator about a turn that did not complete.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}

func failureMessage(stage State, err error) string {
	return fmt.Sprintf("Turn aborted while %s: %s", stage, err.Error())
}
