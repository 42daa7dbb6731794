// internal/config/manifest_loader.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAMLLoader loads and validates YAML transaction manifests
type YAMLLoader struct {
	validator *YAMLValidator
}

// NewYAMLLoader creates a new YAML loader
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{validator: NewYAMLValidator()}
}

// LoadFile loads transaction manifests from a YAML file
// Supports multi-document YAML (separated by ---)
func (l *YAMLLoader) LoadFile(path string) ([]YAMLTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return l.LoadReader(f, path)
}

// LoadReader loads transaction manifests from a reader
func (l *YAMLLoader) LoadReader(r io.Reader, source string) ([]YAMLTransaction, error) {
	decoder := yaml.NewDecoder(r)
	var txs []YAMLTransaction

	docIndex := 0
	for {
		var tx YAMLTransaction
		err := decoder.Decode(&tx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML document %d in %s: %w", docIndex, source, err)
		}
		tx.Source = source

		if result := l.validator.Validate(&tx); !result.Valid {
			return nil, fmt.Errorf("validation failed for document %d in %s: %s", docIndex, source, result.Error())
		}

		txs = append(txs, tx)
		docIndex++
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("no transaction manifests found in %s", source)
	}

	return txs, nil
}

// LoadDirectory loads all YAML files from a directory, in name order
func (l *YAMLLoader) LoadDirectory(dir string) ([]YAMLTransaction, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var all []YAMLTransaction
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		txs, err := l.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		all = append(all, txs...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no transaction manifests found in %s", dir)
	}

	return all, nil
}

// Load loads from a path (file or directory)
func (l *YAMLLoader) Load(path string) ([]YAMLTransaction, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return l.LoadDirectory(path)
	}
	return l.LoadFile(path)
}

// ParseParams decodes a YAML (or JSON) document holding method parameters,
// either a sequence or a mapping.
func ParseParams(data []byte) (any, error) {
	var params any
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse params: %w", err)
	}
	switch params.(type) {
	case nil, []any, map[string]any:
		return params, nil
	default:
		return nil, fmt.Errorf("params must be a sequence or a mapping, got %T", params)
	}
}
