// Package service maps backend resources to typed calls over a shared
// *api.Client.
//
// Facades follow one of two error policies. Critical reads and writes
// (RequestService, WorkflowService) return the underlying failure unchanged so
// the caller can render a not-found state. Best-effort calls
// (NotificationService) never return an error: failures are logged, reported
// to an optional FallbackHook, and replaced with a safe default so a failing
// background call cannot block the primary view.
package service
