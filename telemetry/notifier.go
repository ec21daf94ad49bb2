// Package telemetry relays worker failure/diagnostic notifications to an
// external sink (spec §6 "Action sink": "NotifyTelegram(message) for
// diagnostics").
//
// Grounded on core/ai.go's AIStubClient + grpc.Dial pattern: a minimal stub
// client interface over a gRPC connection, with a logrus fallback for
// deployments that don't wire a remote notifier.
package telemetry

import "context"

// Notifier is the boundary the worker pool calls to report a diagnostic or
// failure message (spec §4.C7 step 5, §6 NotifyTelegram).
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
