package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Theme kinds map to subdirectories of the base path.
const (
	previewDir = "preview"
	codeDir    = "code"
)

// FilesystemLoader loads themes from a directory on the filesystem.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks so containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// LoadPreviewTheme reads {basePath}/preview/{name}.css.
func (f *FilesystemLoader) LoadPreviewTheme(name string) (string, error) {
	return f.load(previewDir, name)
}

// LoadCodeTheme reads {basePath}/code/{name}.css.
func (f *FilesystemLoader) LoadCodeTheme(name string) (string, error) {
	return f.load(codeDir, name)
}

func (f *FilesystemLoader) load(kind, name string) (string, error) {
	normalized, err := NormalizeThemeName(name)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(f.basePath, kind, normalized+cssSuffix)
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s theme %q", ErrThemeNotFound, kind, name)
		}
		return "", fmt.Errorf("%w: %v", ErrThemeRead, err)
	}
	return string(content), nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside it.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its lexical path; the read fails later anyway.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes theme directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ ThemeLoader = (*FilesystemLoader)(nil)
