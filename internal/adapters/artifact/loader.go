package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/okian/crewcast/internal/domain/runtime"
)

// Load reads a forest artifact from path. The format follows the file
// extension: .json, .yaml or .yml.
func Load(_ context.Context, path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses an artifact body. ext selects the format and may be given
// with or without the leading dot.
func Decode(data []byte, ext string) (*Forest, error) {
	var f Forest
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Loader opens forest artifacts from the local filesystem.
type Loader struct{}

// Load implements runtime.Loader.
func (Loader) Load(ctx context.Context, source string) (runtime.Runtime, error) {
	f, err := Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return f, nil
}
