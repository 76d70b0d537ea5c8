package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxtree/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported document extension %q", filepath.Ext(path))
}

// Document is a layout tree together with the space it is laid out in.
type Document struct {
	Width    string `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height   string `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	Rounding *bool  `json:"rounding,omitempty" yaml:"rounding,omitempty" toml:"rounding,omitempty"`
	Root     Node   `json:"root" yaml:"root" toml:"root"`
}

// Node is one node of a document tree.
type Node struct {
	ID       string    `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Style    StyleSpec `json:"style,omitzero" yaml:"style,omitempty" toml:"style,omitempty"`
	Children []Node    `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc Document
	switch f {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s document", f)
	}
	return &doc, nil
}

// Load reads the document at path, choosing the format by extension.
func Load(path string) (*Document, []byte, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(data), f)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Count returns the number of nodes in the document.
func (d *Document) Count() int {
	return d.Root.count()
}

func (n *Node) count() int {
	c := 1
	for i := range n.Children {
		c += n.Children[i].count()
	}
	return c
}
