package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/raidtimeline/timeline-go/internal/safefile"
)

const (
	// MaxFileSize is the maximum allowed size for a bundle file (2MB).
	MaxFileSize = 2 * 1024 * 1024

	// MaxRegexLength is the maximum allowed length of a trigger or style
	// regex, in bytes.
	MaxRegexLength = 512

	// MaxEntries is the maximum number of triggers, and separately of styles.
	MaxEntries = 1000

	// SupportedVersion is the currently supported bundle format version.
	SupportedVersion = 1
)

// Load reads and parses a bundle file, selecting the format by extension.
// Non-regular files are rejected and file system paths are kept out of the
// returned errors.
//
// Example:
//
//	b, err := bundle.Load("raid.yaml")
//	if err != nil {
//	    log.Fatalf("failed to load bundle: %v", err)
//	}
//	opts, err := b.Options()
func Load(path string) (*Bundle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := safefile.ReadRegular(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle file: %w", err)
	}
	return LoadBytes(data, format)
}

// LoadBytes parses a bundle from data in the given format. The document is
// validated against the bundle schema first, then decoded and checked by
// Validate.
func LoadBytes(data []byte, format Format) (*Bundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("bundle file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("bundle file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var doc any
	if err := decode(data, format, &doc); err != nil {
		return nil, err
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var b Bundle
	if err := decode(data, format, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatTOML:
		// TOML documents always decode to a table.
		if p, ok := v.(*any); ok {
			var m map[string]any
			if err := toml.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("failed to parse TOML: %w", err)
			}
			*p = m
			return nil
		}
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return nil
}

// Encode writes b to w in the given format.
func (b *Bundle) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(b)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Validate checks the decoded bundle:
//   - Supported version number
//   - Entry count limits
//   - Required trigger and style fields
//   - Unique trigger IDs
//   - Regex length limits
//
// Regular expressions are compiled by Options, not here.
func (b *Bundle) Validate() error {
	if b.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", b.Version, SupportedVersion),
		}
	}
	if len(b.Triggers) > MaxEntries {
		return &ValidationError{
			Field:   "triggers",
			Message: fmt.Sprintf("too many triggers (%d), maximum allowed is %d", len(b.Triggers), MaxEntries),
		}
	}
	if len(b.Styles) > MaxEntries {
		return &ValidationError{
			Field:   "styles",
			Message: fmt.Sprintf("too many styles (%d), maximum allowed is %d", len(b.Styles), MaxEntries),
		}
	}

	seenIDs := make(map[string]int, len(b.Triggers))
	for i, t := range b.Triggers {
		if t.ID == "" {
			return &EntryError{Section: "triggers", Index: i, Field: "id", Message: "id is required"}
		}
		if t.Regex == "" {
			return &EntryError{Section: "triggers", Index: i, ID: t.ID, Field: "regex", Message: "regex is required"}
		}
		if prev, exists := seenIDs[t.ID]; exists {
			return &EntryError{
				Section: "triggers",
				Index:   i,
				ID:      t.ID,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id (previously defined at triggers[%d])", prev),
			}
		}
		seenIDs[t.ID] = i
		if len(t.Regex) > MaxRegexLength {
			return &EntryError{
				Section: "triggers",
				Index:   i,
				ID:      t.ID,
				Field:   "regex",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(t.Regex), MaxRegexLength),
			}
		}
	}

	for i, s := range b.Styles {
		if s.Regex == "" {
			return &EntryError{Section: "styles", Index: i, Field: "regex", Message: "regex is required"}
		}
		if len(s.Regex) > MaxRegexLength {
			return &EntryError{
				Section: "styles",
				Index:   i,
				Field:   "regex",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(s.Regex), MaxRegexLength),
			}
		}
	}
	return nil
}
