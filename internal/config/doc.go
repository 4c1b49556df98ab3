// Package config loads the score calculator configuration.
//
// Values come from three places, highest priority first:
//
//  1. Environment variables prefixed with SIUS_
//  2. A YAML file (config.yaml, configs/config.yaml, or SIUS_CONFIG_FILE)
//  3. The defaults declared in struct tags
//
// Nested sections map to underscore-joined variable names:
//
//	SIUS_SERVER_PORT=9090
//	SIUS_UPLOAD_MAX_BYTES=10485760
//	SIUS_SCORING_PRECISION=2
//	SIUS_SCORING_FIELDS_FILE=/etc/sius/fields.txt
//	SIUS_LOGGING_LEVEL=debug
//
// The equivalent YAML:
//
//	server:
//	  port: 9090
//	upload:
//	  max_bytes: 10485760
//	scoring:
//	  precision: 2
//	  fields_file: /etc/sius/fields.txt
//	logging:
//	  level: debug
//
// Load validates the result. Logging always uses the JSON format; an unknown
// output mode falls back to console.
package config
