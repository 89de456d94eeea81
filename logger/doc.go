// Package logger provides structured logging for streamkit built on
// zerolog.
//
// The library logs sparingly: terminal drives emit one debug line on
// completion and one error line on failure, tagged with the drive id
// and operation name. Applications embedding streamkit can route that
// output through their own zerolog configuration via Init or
// SetGlobalLogger.
//
// # Usage
//
//	log := logger.NewDefault("my-app").WithComponent("ingest")
//	log.Info("loaded", logger.Fields("elements", n))
package logger
