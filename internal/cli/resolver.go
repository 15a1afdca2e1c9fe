package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/toyz/txsync/internal/deployment"
	"github.com/toyz/txsync/internal/descriptor"
	"github.com/toyz/txsync/internal/parser"
	"github.com/toyz/txsync/internal/utils"
)

// Resolver coordinates a resolve run: module lookup, package loading,
// descriptor loading and the callback merge
type Resolver struct {
	reader         *utils.FileReader
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	loader         *descriptor.Loader
	processor      *deployment.Processor
	diagnostics    *utils.DiagnosticSystem
}

// NewResolver creates a resolver logging through diagnostics
func NewResolver(diagnostics *utils.DiagnosticSystem) *Resolver {
	reader := utils.NewFileReader()
	return &Resolver{
		reader:         reader,
		moduleResolver: NewModuleResolver(reader),
		parser:         parser.NewParser(),
		loader:         descriptor.NewLoader(reader),
		processor:      deployment.NewProcessor(diagnostics),
		diagnostics:    diagnostics,
	}
}

// Run executes a resolve run and returns its report
func (r *Resolver) Run(ctx context.Context, config Config) (*deployment.Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	r.diagnostics.Verbose("Starting resolution at %s", startTime.Format("15:04:05"))
	r.diagnostics.Debug("Loading patterns %v from %s", config.Patterns, config.Dir)

	r.diagnostics.PhaseHeader("Loading")

	moduleName, err := r.moduleResolver.ResolveModuleName(config.ModuleName, config.Dir)
	if err != nil {
		return nil, err
	}
	r.diagnostics.PhaseItem("Module %s", moduleName)

	indexes, err := r.parser.LoadPackages(ctx, config.Dir, config.Patterns...)
	if err != nil {
		return nil, err
	}
	r.diagnostics.PhaseItem("Loaded %d package(s)", len(indexes))

	desc, err := r.loadDescriptor(config)
	if err != nil {
		return nil, err
	}
	if desc != nil {
		r.diagnostics.PhaseItem("Descriptor %s (version %d, %d component(s))", desc.Path, desc.Version, len(desc.Components()))
	}

	r.diagnostics.PhaseHeader("Resolving")
	report, err := r.processor.Process(ctx, deployment.Unit{
		ModulePath: moduleName,
		Indexes:    indexes,
		Descriptor: desc,
	})
	if err != nil {
		return nil, err
	}
	for _, component := range report.Components {
		r.diagnostics.PhaseItem("%s: %d callback(s)", component.Name, len(component.Callbacks))
	}

	r.diagnostics.Verbose("Resolution finished in %v", time.Since(startTime))
	return report, nil
}

// loadDescriptor loads the configured descriptor, or the first default
// descriptor found in Dir. It returns nil when the unit has none.
func (r *Resolver) loadDescriptor(config Config) (*descriptor.Descriptor, error) {
	if config.NoDescriptor {
		return nil, nil
	}

	if config.DescriptorPath != "" {
		return r.loader.Load(config.DescriptorPath)
	}

	for _, name := range DefaultDescriptorNames {
		path := filepath.Join(config.Dir, name)
		if r.reader.Exists(path) {
			r.diagnostics.Verbose("Using descriptor %s", path)
			return r.loader.Load(path)
		}
	}

	r.diagnostics.Verbose("No descriptor found in %s", config.Dir)
	return nil, nil
}
