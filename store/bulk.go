package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sicko7947/contactbook"
)

// Codec encodes and decodes the full contact record set of a bulk file
type Codec interface {
	Encode(w io.Writer, contacts []*contactbook.Contact) error
	Decode(r io.Reader) ([]*contactbook.Contact, error)
	Format() string
}

// JSONCodec handles the default JSON array form
type JSONCodec struct{}

// Format returns the codec format identifier
func (JSONCodec) Format() string {
	return "json"
}

// Encode writes contacts as a JSON array
func (JSONCodec) Encode(w io.Writer, contacts []*contactbook.Contact) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nonNil(contacts))
}

// Decode reads a JSON array of contacts
func (JSONCodec) Decode(r io.Reader) ([]*contactbook.Contact, error) {
	var contacts []*contactbook.Contact
	if err := json.NewDecoder(r).Decode(&contacts); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return compact(contacts), nil
}

// YAMLCodec handles the YAML sequence form
type YAMLCodec struct{}

// Format returns the codec format identifier
func (YAMLCodec) Format() string {
	return "yaml"
}

// Encode writes contacts as a YAML sequence
func (YAMLCodec) Encode(w io.Writer, contacts []*contactbook.Contact) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(nonNil(contacts)); err != nil {
		return err
	}
	return encoder.Close()
}

// Decode reads a YAML sequence of contacts
func (YAMLCodec) Decode(r io.Reader) ([]*contactbook.Contact, error) {
	var contacts []*contactbook.Contact
	if err := yaml.NewDecoder(r).Decode(&contacts); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return compact(contacts), nil
}

// CodecForPath picks the codec from the file extension; JSON unless .yaml/.yml
func CodecForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}
	default:
		return JSONCodec{}
	}
}

// WriteBulkFile creates or truncates path and writes every contact to it
func WriteBulkFile(path string, contacts []*contactbook.Contact) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return contactbook.NewIOError(path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = contactbook.NewIOError(path, cerr)
		}
	}()

	if err := CodecForPath(path).Encode(file, contacts); err != nil {
		return contactbook.NewIOError(path, err)
	}
	return nil
}

// ReadBulkFile decodes the full record set stored at path
func ReadBulkFile(path string) ([]*contactbook.Contact, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, contactbook.NewIOError(path, err)
	}
	defer file.Close()

	contacts, err := CodecForPath(path).Decode(file)
	if err != nil {
		return nil, contactbook.NewDecodeError(path, err)
	}
	return contacts, nil
}

func nonNil(contacts []*contactbook.Contact) []*contactbook.Contact {
	if contacts == nil {
		return []*contactbook.Contact{}
	}
	return contacts
}

// compact drops null entries
func compact(contacts []*contactbook.Contact) []*contactbook.Contact {
	out := make([]*contactbook.Contact, 0, len(contacts))
	for _, c := range contacts {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
