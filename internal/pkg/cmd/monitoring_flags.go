package cmd

// MonitoringFlags represents a set of flags for
// setting up logging, healthchecks, and Prometheus metrics.
type MonitoringFlags struct {
	*LoggingFlags
	*ServerFlags
}

// NewMonitoringFlags returns a new MonitoringFlags.
func NewMonitoringFlags(app Flagger, port int, logLevel string) *MonitoringFlags {
	return &MonitoringFlags{
		LoggingFlags: NewLoggingFlags(app, logLevel),
		ServerFlags:  NewServerFlags(app, port),
	}
}
