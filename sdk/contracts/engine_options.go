package contracts

// EngineOptions configures a theory engine.
type EngineOptions struct {
	Logger          Logger
	InitialPosition int
}

// EngineOption is a function that modifies EngineOptions.
type EngineOption func(*EngineOptions)

// WithEngineLogger sets the logger of the theory engine.
func WithEngineLogger(l Logger) EngineOption {
	return func(opts *EngineOptions) {
		opts.Logger = l
	}
}

// WithInitialPosition selects the circle position the engine starts on.
func WithInitialPosition(p int) EngineOption {
	return func(opts *EngineOptions) {
		opts.InitialPosition = p
	}
}
