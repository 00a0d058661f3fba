// Package profilefile reads and writes profile sets as YAML or TOML files.
//
// Areas are stored as area specification text so a file can be edited by
// hand and reviewed like any other configuration:
//
//	categories:
//	  - name: video
//	    priority: 5
//	    enabled: true
//	profiles:
//	  - guid: 4b1c...
//	    regex: ^mpv
//	    priority: 10
//	    category: video
//	    areas: |-
//	      * {
//	         x: 0px;
//	         ...
//	      }
package profilefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lumos-rgb/lumos/internal/areaspec"
	"github.com/lumos-rgb/lumos/internal/profile"
)

// Format is a profile file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrUnknownFormat is returned for file extensions other than .yaml, .yml and .toml.
var ErrUnknownFormat = errors.New("unknown profile file format")

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q (want .yaml, .yml or .toml)", ErrUnknownFormat, filepath.Base(path))
}

// Entry is one profile as written in a file. Category names an entry of the
// file's categories list.
type Entry struct {
	GUID     string `yaml:"guid,omitempty" toml:"guid,omitempty"`
	Regex    string `yaml:"regex" toml:"regex"`
	Priority *int   `yaml:"priority,omitempty" toml:"priority,omitempty"`
	Category string `yaml:"category,omitempty" toml:"category,omitempty"`
	Areas    string `yaml:"areas" toml:"areas,multiline"`
}

// CategoryEntry is one category as written in a file. A missing enabled
// key means enabled.
type CategoryEntry struct {
	Name     string `yaml:"name" toml:"name"`
	Priority int    `yaml:"priority" toml:"priority"`
	Enabled  *bool  `yaml:"enabled,omitempty" toml:"enabled"`
}

type document struct {
	Categories []CategoryEntry `yaml:"categories,omitempty" toml:"categories,omitempty"`
	Profiles   []Entry         `yaml:"profiles" toml:"profiles"`
}

// EntryError reports which entry of a file could not be turned into a profile.
// Index is zero-based.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("profile %d: %v", e.Index+1, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Decode reads a profile set, parsing areas with opts. Entries are validated
// in order and the first invalid one is reported as an *EntryError wrapping
// the regex, category or parse error. Decoded categories are not yet saved.
func Decode(r io.Reader, format Format, opts areaspec.Options) ([]*profile.Profile, error) {
	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		md, err := dec.Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decoding toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	categories, err := decodeCategories(doc.Categories)
	if err != nil {
		return nil, err
	}

	profiles := make([]*profile.Profile, 0, len(doc.Profiles))
	for i, entry := range doc.Profiles {
		p, err := profile.NewWithOptions(entry.Regex, entry.Areas, entry.Priority, opts)
		if err != nil {
			return nil, &EntryError{Index: i, Err: err}
		}
		p.SetGUID(entry.GUID)
		if entry.Category != "" {
			c, ok := categories[entry.Category]
			if !ok {
				return nil, &EntryError{Index: i, Err: fmt.Errorf("unknown category %q", entry.Category)}
			}
			p.SetCategory(c)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func decodeCategories(entries []CategoryEntry) (map[string]*profile.Category, error) {
	categories := make(map[string]*profile.Category, len(entries))
	for i, entry := range entries {
		c, err := profile.NewCategory(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", i+1, err)
		}
		if _, dup := categories[c.Name]; dup {
			return nil, fmt.Errorf("category %d: %q defined twice", i+1, c.Name)
		}
		c.Priority = entry.Priority
		if entry.Enabled != nil {
			c.Enabled = *entry.Enabled
		}
		categories[c.Name] = c
	}
	return categories, nil
}

// Encode writes profiles with their areas in canonical form.
func Encode(w io.Writer, format Format, profiles []*profile.Profile) error {
	doc := document{Profiles: make([]Entry, 0, len(profiles))}
	seen := map[string]bool{}
	for _, p := range profiles {
		entry := Entry{
			GUID:     p.GUID(),
			Regex:    p.Regex(),
			Priority: p.Priority(),
			Areas:    p.AreasText(),
		}
		if c := p.Category(); c != nil {
			entry.Category = c.Name
			if !seen[c.Name] {
				seen[c.Name] = true
				doc.Categories = append(doc.Categories, CategoryEntry{
					Name:     c.Name,
					Priority: c.Priority,
					Enabled:  &c.Enabled,
				})
			}
		}
		doc.Profiles = append(doc.Profiles, entry)
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Load reads the profile file at path, parsing areas with opts.
func Load(path string, opts areaspec.Options) ([]*profile.Profile, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	profiles, err := Decode(bytes.NewReader(data), format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// Save writes profiles to path, replacing any existing file.
func Save(path string, profiles []*profile.Profile) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, format, profiles); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}
	return nil
}
