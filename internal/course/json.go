package course

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse validates raw JSON against the course document schema and unmarshals
// it into a normalized Course.
func Parse(raw []byte) (*Course, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var c Course
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	c.normalize()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and parses a course document from disk.
func LoadFile(path string) (*Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course file: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Encode renders the course as indented JSON suitable for export.
func (c *Course) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode course: %w", err)
	}
	return append(out, '\n'), nil
}

// SaveFile writes the course as indented JSON to path.
func (c *Course) SaveFile(path string) error {
	out, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write course file: %w", err)
	}
	return nil
}
