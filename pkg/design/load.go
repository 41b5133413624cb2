package design

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dbccheck/pkg/errors"
)

// Format identifies the syntax a design document was written in.
type Format string

// Supported design formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Parse decodes a flat design document. JSON is tried first and YAML is the
// fallback, so a YAML file with a .json name still loads.
func Parse(data []byte) (*Object, Format, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidDesign, "design document is empty")
	}

	tree, jsonErr := decodeJSONTree(data)
	format := FormatJSON
	if jsonErr != nil {
		var yamlErr error
		tree, yamlErr = decodeYAMLTree(data)
		if yamlErr != nil {
			return nil, "", errors.Wrap(errors.ErrCodeInvalidDesign, yamlErr,
				"cannot parse design as JSON (%v) or YAML", jsonErr)
		}
		format = FormatYAML
	}

	obj, ok := tree.(*Object)
	if !ok {
		return nil, "", errors.New(errors.ErrCodeInvalidDesign, "design document must be an object at the top level")
	}
	return obj, format, nil
}

// Read parses, normalizes and validates a design from r.
func Read(r io.Reader) (*Design, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "read design")
	}
	return FromBytes(data)
}

// FromBytes parses, normalizes and validates a design document.
func FromBytes(data []byte) (*Design, error) {
	flat, _, err := Parse(data)
	if err != nil {
		return nil, err
	}
	d, err := Normalize(flat)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads a design file from disk.
func Load(path string) (*Design, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "design file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDesign, err, "read %s", path)
	}
	d, err := FromBytes(data)
	if err != nil {
		return nil, err
	}
	if d.TemplateID == "" {
		d.TemplateID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}
