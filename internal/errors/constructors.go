package errors

// ConfigError creates a fatal configuration error (bad site.yaml, malformed
// document shape).
func ConfigError(message string) *ComposeError {
	return &ComposeError{
		Category: CategoryConfig,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// ValidationError creates a new validation error
func ValidationError(message string) *ComposeError {
	return &ComposeError{
		Category: CategoryValidation,
		Severity: SeverityWarning,
		Message:  message,
	}
}

// DaemonError creates a new daemon error (service unavailable)
func DaemonError(message string) *ComposeError {
	return &ComposeError{
		Category: CategoryDaemon,
		Severity: SeverityError,
		Message:  message,
	}
}

// WrapError wraps an existing error with a new ComposeError at error severity
func WrapError(err error, category ErrorCategory, message string) *ComposeError {
	return &ComposeError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}
