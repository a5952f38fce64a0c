package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   string
	only   []string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode overrides the execution mode, taking precedence over the
// config file and the APP_MODE environment variable.
func WithMode(mode string) Option {
	return func(a *application) {
		a.mode = mode
	}
}

// WithOnly restricts a fetch run to the named fetchers.
func WithOnly(names []string) Option {
	return func(a *application) {
		a.only = names
	}
}
