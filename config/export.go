package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Supported output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportConfig controls the produced schedule file.
type ExportConfig struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Sheet  string `json:"sheet"`
	// Open launches the default application on the file once written.
	// Nil means open on Windows only.
	Open *bool `json:"open"`
}

// SetDefaults fills the file name, format and sheet name.
func (c *ExportConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "JPI Machine Schedule.xlsx"
	}
	if c.Format == "" {
		c.Format = FormatFromPath(c.Path)
	}
	c.Format = strings.ToLower(c.Format)
	if c.Sheet == "" {
		c.Sheet = "Schedule"
	}
	if c.Open == nil {
		open := runtime.GOOS == "windows"
		c.Open = &open
	}
}

// Validate checks the output format.
func (c ExportConfig) Validate() error {
	switch c.Format {
	case FormatXLSX, FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("unknown format %s", c.Format)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ShouldOpen reports whether the file must be opened after export.
func (c ExportConfig) ShouldOpen() bool { return c.Open != nil && *c.Open }

// FormatFromPath infers the output format from the file extension,
// defaulting to xlsx.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatXLSX
	}
}
