package ports

// Runner is a long-running component the daemon starts and stops
type Runner interface {
	// Start starts the component without blocking
	Start() error

	// Stop stops the component and waits for in-flight work
	Stop() error
}
