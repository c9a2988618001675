package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline file and overlays it on Default(). Files ending in
// .yaml or .yml are decoded as YAML; everything else as JSON. An empty path
// returns the defaults unchanged.
func Load(path string) (Pipeline, error) {
	p := Default()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(b, filepath.Ext(path), &p); err != nil {
		return Pipeline{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return p, nil
}

// Decode decodes b into p according to ext (".json", ".yaml", ".yml").
// Fields absent from b keep the values already in p.
func Decode(b []byte, ext string, p *Pipeline) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return err
		}
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return nil
}
