package analysis

// ValidationError reports a malformed or inconsistent date range. It is
// raised before any data access happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError means the run cannot start because a required
// collaborator is missing, such as an unconfigured classifier.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }
