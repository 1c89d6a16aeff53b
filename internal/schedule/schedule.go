// Package schedule reads beam schedules (JSON, YAML or XLSX) into
// evaluation requests and writes evaluation summaries back to XLSX.
package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
)

// Format of a schedule file
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	XLSX Format = "xlsx"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("unsupported schedule format: %s", path)
}

// File is the document form of a schedule. A bare list of beams is
// accepted as well.
type File struct {
	Beams []compliance.Request `json:"beams" yaml:"beams"`
}

// LoadFromFile loads a beam schedule. The format follows the extension.
func LoadFromFile(path string) ([]compliance.Request, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reqs, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reqs, nil
}

// Read decodes a schedule in the given format.
func Read(r io.Reader, format Format) ([]compliance.Request, error) {
	switch format {
	case XLSX:
		return ReadXLSX(r)
	case JSON, YAML:
	default:
		return nil, fmt.Errorf("unsupported schedule format %q", format)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}

	var reqs []compliance.Request
	if format == JSON {
		if data[0] == '[' {
			err = json.Unmarshal(data, &reqs)
		} else {
			var doc File
			err = json.Unmarshal(data, &doc)
			reqs = doc.Beams
		}
	} else {
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil {
			if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
				err = node.Decode(&reqs)
			} else {
				var doc File
				err = node.Decode(&doc)
				reqs = doc.Beams
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s schedule: %w", format, err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("schedule has no beams")
	}
	return reqs, nil
}
