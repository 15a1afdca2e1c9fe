// Package deployment resolves the transaction callbacks of every stateful
// component in a deployment unit: the loaded packages plus an optional
// descriptor.
package deployment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/txsync/internal/descriptor"
	"github.com/toyz/txsync/internal/merging"
	"github.com/toyz/txsync/internal/parser"
	"github.com/toyz/txsync/internal/utils"
)

// Unit is the input of one resolution run
type Unit struct {
	ModulePath string
	Indexes    parser.Indexes
	Descriptor *descriptor.Descriptor // nil when the unit has no descriptor
}

// Processor runs the callback merge over a deployment unit
type Processor struct {
	diagnostics *utils.DiagnosticSystem
}

// NewProcessor creates a processor logging through diagnostics. A nil
// diagnostics logs errors only.
func NewProcessor(diagnostics *utils.DiagnosticSystem) *Processor {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Processor{diagnostics: diagnostics}
}

// Process resolves every component of the unit in name order. The first
// failing component aborts the run and no report is produced.
func (p *Processor) Process(ctx context.Context, unit Unit) (*Report, error) {
	started := time.Now()

	components, err := Components(unit.Indexes, unit.Descriptor)
	if err != nil {
		return nil, err
	}
	p.diagnostics.Verbose("Found %d stateful component(s)", len(components))

	metadataComplete := unit.Descriptor.IsMetadataComplete()
	if metadataComplete {
		p.diagnostics.Verbose("Descriptor is metadata-complete, markers are ignored")
	}

	merger := merging.NewMerger(
		parser.NewCollector(unit.Indexes),
		parser.NewCapabilityChecker(unit.Indexes),
	)

	for _, component := range components {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.diagnostics.Debug("Merging %s (%s)", component.Name, component.TypeName())
		if err := merger.Merge(component, metadataComplete); err != nil {
			return nil, err
		}
	}

	report := &Report{
		RunID:            uuid.NewString(),
		Module:           unit.ModulePath,
		MetadataComplete: metadataComplete,
		Packages:         len(unit.Indexes),
		Components:       make([]ComponentReport, 0, len(components)),
		Duration:         time.Since(started),
	}
	if unit.Descriptor != nil {
		report.Descriptor = unit.Descriptor.Path
	}
	for _, component := range components {
		report.Components = append(report.Components, newComponentReport(component))
	}

	return report, nil
}
