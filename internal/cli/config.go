package cli

import (
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/utils"
)

// Output formats for the resolution report
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// DefaultDescriptorNames are looked up in Dir when no descriptor is given
var DefaultDescriptorNames = []string{"txsync.yaml", "txsync.yml", "txsync.hcl"}

// Config holds the configuration for a resolve run
type Config struct {
	// Dir is the directory package patterns are relative to
	Dir string

	// Patterns are the package patterns to load, e.g. ./...
	Patterns []string

	// DescriptorPath is the deployment descriptor. If empty, the first of
	// DefaultDescriptorNames found in Dir is used, if any.
	DescriptorPath string

	// NoDescriptor disables descriptor discovery
	NoDescriptor bool

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Format is the report format, text or yaml
	Format string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet only shows errors and the report
	Quiet bool
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.Dir == "" {
		c.Dir = "."
	}
	if len(c.Patterns) == 0 {
		c.Patterns = []string{"./..."}
	}
	if c.Format == "" {
		c.Format = FormatText
	}

	if err := utils.IsOneOf("format", FormatText, FormatYAML)(c.Format); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "invalid output format", err)
	}
	if c.Verbose && c.Quiet {
		return errors.New(errors.ConfigurationErrorCode, "--verbose and --quiet cannot be used together")
	}
	if c.NoDescriptor && c.DescriptorPath != "" {
		return errors.New(errors.ConfigurationErrorCode, "--descriptor and --no-descriptor cannot be used together")
	}

	return nil
}

// DiagnosticLevel maps the verbosity flags to a diagnostic level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}
