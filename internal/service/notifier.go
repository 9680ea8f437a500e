package service

import "context"

// WorkflowNotifier is the slice of the notifications package the workflows
// consume. All calls are side effects of committed transitions; failures are
// swallowed by the caller.
type WorkflowNotifier interface {
	Notify(ctx context.Context, userID uint, template string, context map[string]any) error
	NotifyAdmins(ctx context.Context, template string, context map[string]any) error
}
