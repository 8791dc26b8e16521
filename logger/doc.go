// Package logger provides the application's structured logger, a thin
// wrapper around Uber's Zap.
//
// All logging goes through five methods with the same shape:
//
//	log.Info("image generated", nil, map[string]interface{}{
//	    "backend": "gemini",
//	})
//	log.Error("upload failed", err, nil)
//
// Entries are JSON-encoded with ISO8601 timestamps, the process id and the
// service name, and are written to stderr. The level is controlled by
// ZAP_LOGGER_LEVEL (debug, info, warning, error) and the service name by
// SERVICE_NAME.
//
// Packages that need logging declare their own small Logger interface over
// this method set; *logger.Logger satisfies all of them.
package logger
