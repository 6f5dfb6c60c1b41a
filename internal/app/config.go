package app

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProfilePath points at a single .hcl profile file or a directory of them.
	ProfilePath string

	LogFormat string
	LogLevel  string
	// MaxPasses overrides the scheduler's pass ceiling when positive.
	MaxPasses int
}
