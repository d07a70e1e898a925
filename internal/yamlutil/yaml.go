// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Callers never import goccy/go-yaml directly.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// frontMatterFence delimits a YAML front matter block.
const frontMatterFence = "---"

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes YAML, ignoring unknown fields.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// SplitFrontMatter separates a leading "---" delimited block from the body.
// Content must already use "\n" line endings. When no complete block is
// present, front is nil and body is the input unchanged.
func SplitFrontMatter(content string) (front []byte, body string) {
	if !strings.HasPrefix(content, frontMatterFence+"\n") {
		return nil, content
	}
	rest := content[len(frontMatterFence)+1:]

	// The closing fence may be the first line (empty block).
	if strings.HasPrefix(rest, frontMatterFence+"\n") || rest == frontMatterFence {
		return []byte{}, strings.TrimPrefix(strings.TrimPrefix(rest, frontMatterFence), "\n")
	}

	end := strings.Index(rest, "\n"+frontMatterFence+"\n")
	if end == -1 {
		if strings.HasSuffix(rest, "\n"+frontMatterFence) {
			return []byte(rest[:len(rest)-len(frontMatterFence)-1]), ""
		}
		return nil, content
	}
	return []byte(rest[:end]), rest[end+len(frontMatterFence)+2:]
}
