// Package config loads and validates streamkit configuration.
//
// It uses Viper to read a YAML file and environment variables (with a
// .env file loaded via godotenv when present), merging them into a
// Config struct. Environment variables override file values using
// underscore-separated paths (e.g. LOGGING_LEVEL, STREAM_BUFFER_CAPACITY).
//
//	var cfg config.Config
//	if err := config.Load("myapp", &cfg); err != nil { ... }
//	if err := cfg.Apply(); err != nil { ... }
package config
