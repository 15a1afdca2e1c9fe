package cli

import (
	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(reader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(reader)}
}

// ResolveModuleName resolves the module path reported for a run.
// If customModule is provided, it uses that; otherwise reads the go.mod
// enclosing dir.
func (r *ModuleResolver) ResolveModuleName(customModule, dir string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	goModPath, err := r.goMod.FindGoModFile(dir)
	if err != nil {
		return "", err
	}

	moduleName, err := r.goMod.ParseModuleName(goModPath)
	if err != nil {
		return "", errors.Wrap(errors.ConfigurationErrorCode, "failed to determine module name", err).
			WithSuggestion("Try specifying --module flag explicitly")
	}

	return moduleName, nil
}
