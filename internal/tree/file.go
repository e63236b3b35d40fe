// Package tree loads option trees for the cascading picker and provides the
// lazy loaders that answer its load requests.
package tree

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Format names a tree file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for unsupported file extensions or format
// names.
var ErrUnknownFormat = errors.New("unknown tree format")

// document is the object form of a tree file. JSON and YAML files may
// also be a bare list of options.
type document struct {
	Options []*cascade.Option `json:"options" yaml:"options" toml:"options"`
}

// ParseFormat accepts json, yaml, yml, or toml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// FormatFor infers the format from a file extension.
func FormatFor(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// LoadFile reads and validates the tree stored at path.
func LoadFile(path string) (cascade.Tree, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open tree file")
	}
	defer f.Close()
	t, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return t, nil
}

// Decode reads a tree in the given format, fills in labels, and validates
// the result.
func Decode(r io.Reader, format Format) (cascade.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read tree")
	}
	var options []*cascade.Option
	switch format {
	case FormatJSON:
		options, err = decodeJSON(data)
	case FormatYAML:
		options, err = decodeYAML(data)
	case FormatTOML:
		var doc document
		_, err = toml.Decode(string(data), &doc)
		options = doc.Options
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s tree", format)
	}
	t := cascade.Tree(options)
	normalize(t)
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeJSON(data []byte) ([]*cascade.Option, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var options []*cascade.Option
		err := json.Unmarshal(trimmed, &options)
		return options, err
	}
	var doc document
	err := json.Unmarshal(trimmed, &doc)
	return doc.Options, err
}

func decodeYAML(data []byte) ([]*cascade.Option, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var options []*cascade.Option
		err := node.Decode(&options)
		return options, err
	}
	var doc document
	err := node.Decode(&doc)
	return doc.Options, err
}

func normalize(options []*cascade.Option) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt.Value = strings.TrimSpace(opt.Value)
		if strings.TrimSpace(opt.Label) == "" {
			opt.Label = opt.Value
		}
		normalize(opt.Children)
	}
}
