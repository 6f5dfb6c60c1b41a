// Package hcl implements the HCL-backed profile loader. It parses profile
// files with hclparse, decodes them through gohcl into the schema structs,
// and translates the result into the format-agnostic config model.
package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/phasegrid/internal/config"
	"github.com/vk/phasegrid/internal/ctxlog"
	"github.com/vk/phasegrid/internal/fsutil"
	"github.com/vk/phasegrid/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL profile loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given paths (files or directories)
// and merges them into a single profile model. Entity names must be unique
// across all loaded files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read profile path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find profile files in %s: %w", path, err)
		}
		files = append(files, found...)
	}
	logger.Debug("Profile files discovered.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		parsed, err := parseProfileFile(file, parser)
		if err != nil {
			return nil, err
		}
		if err := l.translate(parsed, model); err != nil {
			return nil, fmt.Errorf("invalid profile file %s: %w", file, err)
		}
	}

	logger.Debug("Profile model assembled.",
		"entities", len(model.Entities),
		"orders", len(model.Orders),
	)
	return model, nil
}

// parseProfileFile parses a single HCL file into the raw schema structs.
func parseProfileFile(filePath string, parser *hclparse.Parser) (*schema.ProfileConfig, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}

	var parsed schema.ProfileConfig
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}
	return &parsed, nil
}
