// Package observability provides OpenTelemetry tracing and metrics for
// pipeline drives.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-app"))
//	defer tp.Shutdown(ctx)
//
// Every terminal drive in the stream package opens a span named
// "stream.<operation>" tagged with a unique drive id; with no tracer
// provider installed the spans are no-ops.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-app"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("my-app"))
//	stream.SetMetrics(metrics)
package observability
