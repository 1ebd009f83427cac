package timeline

import (
	"errors"
	"fmt"

	"github.com/raidtimeline/timeline-go/internal/safefile"
)

// MaxFileSize is the largest timeline file ParseFile accepts (4MB).
const MaxFileSize = 4 * 1024 * 1024

// ParseFile reads a timeline file and parses it with Parse.
// The file must be a regular file no larger than MaxFileSize. An empty file
// yields an empty Timeline.
func ParseFile(path string, opts ...Option) (*Timeline, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

// ParseFile reads and parses a timeline file with p.
func (p *Parser) ParseFile(path string) (*Timeline, error) {
	data, err := safefile.ReadRegular(path, MaxFileSize)
	if err != nil && !errors.Is(err, safefile.ErrEmpty) {
		return nil, fmt.Errorf("failed to read timeline file: %w", err)
	}
	return p.Parse(string(data))
}
