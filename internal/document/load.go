package document

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Document is a decoded input document. Node keeps mapping key order, which
// filter documents depend on.
type Document struct {
	Source string
	Data   []byte
	Node   *yaml.Node
}

// Parse decodes YAML or JSON bytes into a Document.
func Parse(source string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, fmt.Errorf("parsing %s: document is empty", source)
	}
	doc := &Document{Source: source, Data: data, Node: &root}
	if root.Kind == yaml.DocumentNode {
		doc.Node = root.Content[0]
	}
	return doc, nil
}

// LoadFile reads and parses a document. A path of "-" reads from stdin.
func LoadFile(path string, stdin io.Reader) (*Document, error) {
	data, err := readFile(path, stdin)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Value decodes the document into plain Go values with JSON-compatible
// types, ready for encoding as a request body.
func (d *Document) Value() (interface{}, error) {
	v, err := DecodeNode(d.Node)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", d.Source, err)
	}
	return v, nil
}

// DecodeNode decodes one node the way Value does.
func DecodeNode(n *yaml.Node) (interface{}, error) {
	var raw interface{}
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeYAML(raw), nil
}

func readFile(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
