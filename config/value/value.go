// Package value provides typed configuration values that can be set from
// their string representation, e.g. from an environment variable.
package value

// Value is a configuration value bound to a field of the configuration data.
type Value interface {
	// String returns the value in the same representation Set accepts.
	String() string

	// Set parses the string and stores the result in the bound field.
	// It returns an error if the string can't be parsed.
	Set(string) error

	// Validate returns an error describing what is wrong with the
	// current value, or nil.
	Validate() error

	// IsEmpty returns whether the value is the zero value of its type,
	// e.g. for checking required values.
	IsEmpty() bool
}
