package descriptor

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/utils"
)

// Format is the syntax of a descriptor file
type Format string

const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatOf picks the syntax from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", errors.NewDescriptorError(path, "unsupported descriptor extension, expected .yaml, .yml or .hcl")
	}
}

// Loader reads descriptor files from disk
type Loader struct {
	reader *utils.FileReader
}

// NewLoader creates a loader reading through reader. A nil reader gets a
// fresh one.
func NewLoader(reader *utils.FileReader) *Loader {
	if reader == nil {
		reader = utils.NewFileReader()
	}
	return &Loader{reader: reader}
}

// Load reads, decodes and validates the descriptor at path
func (l *Loader) Load(path string) (*Descriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := l.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(path, format, data)
}

// Parse decodes and validates descriptor data
func Parse(path string, format Format, data []byte) (*Descriptor, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatYAML:
		doc, err = decodeYAML(path, data)
	case FormatHCL:
		doc, err = decodeHCL(path, data)
	default:
		err = errors.NewDescriptorError(path, fmt.Sprintf("unsupported descriptor format %q", format))
	}
	if err != nil {
		return nil, err
	}

	return New(path, doc)
}

// decodeYAML rejects unknown keys so misspelled callback fields do not go
// unnoticed. An empty document is an empty descriptor.
func decodeYAML(path string, data []byte) (*Document, error) {
	var doc Document

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewDescriptorError(path, "failed to parse descriptor YAML").WithCause(err)
	}

	return &doc, nil
}

func decodeHCL(path string, data []byte) (*Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.NewDescriptorError(path, "failed to parse descriptor HCL").WithCause(diags)
	}

	var doc Document
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return nil, errors.NewDescriptorError(path, "failed to decode descriptor HCL").WithCause(diags)
	}

	return &doc, nil
}
