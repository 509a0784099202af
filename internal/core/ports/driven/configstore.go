package driven

// ConfigStore is the persistence boundary for application settings.
// Implementations own the file format, environment overrides, and type
// coercion; callers work in dotted keys ("embedding.model").
type ConfigStore interface {
	// Get retrieves a raw value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" when absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an int value, 0 when absent or mistyped.
	GetInt(key string) int

	// GetBool retrieves a bool value, false when absent or mistyped.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice, nil when absent or mistyped.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	// Save writes the current values to backing storage.
	Save() error

	// Load replaces in-memory values from backing storage.
	Load() error

	// Path names the backing location for log output.
	Path() string
}
