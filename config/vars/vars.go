// Package vars keeps track of the configuration values, their environment
// variable names, and the messages produced while merging and validating them.
package vars

import (
	"fmt"
	"os"

	"github.com/dragonwatch/dragonwatch/config/value"
)

type variable struct {
	value       value.Value // The actual value
	defVal      string      // The default value in string representation
	name        string      // A name for this value
	envName     string      // The environment variable that corresponds to this value
	envAltNames []string    // Alternative environment variable names
	description string      // A desriptions for this value
	required    bool        // Whether a non-empty value is required
	disguise    bool        // Whether the value should be disguised if printed
	merged      bool        // Whether this value has been replaced by its corresponding environment variable
}

type Variable struct {
	Value       string
	Name        string
	EnvName     string
	Description string
	Merged      bool
}

type message struct {
	message  string   // The log message
	variable Variable // The config field this message refers to
	level    string   // The loglevel for this message
}

// LookupFunc returns the value of an environment variable and whether it is set.
type LookupFunc func(name string) (string, bool)

type Variables struct {
	vars []*variable
	logs []message
}

func (vs *Variables) Register(val value.Value, name, envName string, envAltNames []string, description string, required, disguise bool) {
	vs.vars = append(vs.vars, &variable{
		value:       val,
		defVal:      val.String(),
		name:        name,
		envName:     envName,
		envAltNames: envAltNames,
		description: description,
		required:    required,
		disguise:    disguise,
	})
}

// Transfer copies the merged state of the variables in vss.
func (vs *Variables) Transfer(vss *Variables) {
	for _, v := range vs.vars {
		if vss.IsMerged(v.name) {
			v.merged = true
		}
	}
}

func (vs *Variables) SetDefault(name string) {
	v := vs.findVariable(name)
	if v == nil {
		return
	}

	v.value.Set(v.defVal)
}

func (vs *Variables) Get(name string) (string, error) {
	v := vs.findVariable(name)
	if v == nil {
		return "", fmt.Errorf("variable '%s' not found", name)
	}

	return v.value.String(), nil
}

func (vs *Variables) Set(name, val string) error {
	v := vs.findVariable(name)
	if v == nil {
		return fmt.Errorf("variable '%s' not found", name)
	}

	return v.value.Set(val)
}

// Value returns the registered value for the name, or nil.
func (vs *Variables) Value(name string) value.Value {
	v := vs.findVariable(name)
	if v == nil {
		return nil
	}

	return v.value
}

// List returns a description of all registered variables. Values that are
// marked as disguised are replaced by "***".
func (vs *Variables) List() []Variable {
	list := make([]Variable, 0, len(vs.vars))

	for _, v := range vs.vars {
		list = append(list, v.describe())
	}

	return list
}

func (vs *Variables) Log(level, name string, format string, args ...interface{}) {
	v := vs.findVariable(name)
	if v == nil {
		return
	}

	vs.logs = append(vs.logs, message{
		message:  fmt.Sprintf(format, args...),
		variable: v.describe(),
		level:    level,
	})
}

// Merge overlays the values with the environment. If lookup is nil, the
// process environment is used.
func (vs *Variables) Merge(lookup LookupFunc) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	for _, v := range vs.vars {
		if len(v.envName) == 0 {
			continue
		}

		envval, ok := lookup(v.envName)
		if !ok {
			foundAltName := false

			for _, envName := range v.envAltNames {
				envval, ok = lookup(envName)
				if ok {
					foundAltName = true
					vs.Log("warn", v.name, "using %s, please use %s", envName, v.envName)
					break
				}
			}

			if !foundAltName {
				continue
			}
		}

		err := v.value.Set(envval)
		if err != nil {
			vs.Log("error", v.name, "%s", err.Error())
		}

		v.merged = true
	}
}

func (vs *Variables) IsMerged(name string) bool {
	v := vs.findVariable(name)
	if v == nil {
		return false
	}

	return v.merged
}

func (vs *Variables) Validate() {
	for _, v := range vs.vars {
		vs.Log("info", v.name, "%s", "")

		err := v.value.Validate()
		if err != nil {
			vs.Log("error", v.name, "%s", err.Error())
		}

		if v.required && v.value.IsEmpty() {
			vs.Log("error", v.name, "a value is required")
		}
	}
}

func (vs *Variables) ResetLogs() {
	vs.logs = nil
}

func (vs *Variables) Messages(logger func(level string, v Variable, message string)) {
	for _, l := range vs.logs {
		logger(l.level, l.variable, l.message)
	}
}

func (vs *Variables) HasErrors() bool {
	for _, l := range vs.logs {
		if l.level == "error" {
			return true
		}
	}

	return false
}

func (vs *Variables) Overrides() []string {
	overrides := []string{}

	for _, v := range vs.vars {
		if v.merged {
			overrides = append(overrides, v.name)
		}
	}

	return overrides
}

func (vs *Variables) findVariable(name string) *variable {
	for _, v := range vs.vars {
		if v.name == name {
			return v
		}
	}

	return nil
}

func (v *variable) describe() Variable {
	d := Variable{
		Value:       v.value.String(),
		Name:        v.name,
		EnvName:     v.envName,
		Description: v.description,
		Merged:      v.merged,
	}

	if v.disguise {
		d.Value = "***"
	}

	return d
}
