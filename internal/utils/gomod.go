package utils

import (
	"fmt"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/toyz/txsync/internal/errors"
)

// ModuleInfo is the part of a go.mod file the resolver reports
type ModuleInfo struct {
	Path      string // module path
	GoVersion string // go directive, empty when absent
	Root      string // directory holding go.mod
}

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct {
	fileReader *FileReader
}

// NewGoModParser creates a new go.mod parser with caching
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
	}
}

// ParseModule reads a go.mod file
func (p *GoModParser) ParseModule(goModPath string) (*ModuleInfo, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, errors.Newf(errors.ConfigurationErrorCode, "file is not a go.mod file: %s", goModPath)
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return nil, err
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to parse go.mod file", err).
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	if modFile.Module == nil {
		return nil, errors.New(errors.ConfigurationErrorCode, "no module declaration found in go.mod").
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	info := &ModuleInfo{
		Path: modFile.Module.Mod.Path,
		Root: filepath.Dir(cleanPath),
	}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	return info, nil
}

// ParseModuleName extracts the module path from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	info, err := p.ParseModule(goModPath)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", startDir, err)
	}

	currentDir := absDir
	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if p.fileReader.Exists(goModPath) {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.New(errors.ConfigurationErrorCode, fmt.Sprintf("go.mod file not found in %s or any parent directory", absDir)).
		WithSuggestion("Run inside a Go module or pass --module")
}
