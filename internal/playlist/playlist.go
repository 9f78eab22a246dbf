package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/genricoloni/artshow/internal/domain"
	"go.uber.org/zap"
)

// Folder is the directory given on the command line
type Folder string

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
}

// Playlist is the sorted list of images found directly inside a folder
type Playlist struct {
	dir   string
	paths []string
}

// New scans folder and logs the result. Used as the fx constructor.
func New(logger *zap.Logger, folder Folder) (*Playlist, error) {
	p, err := Scan(string(folder))
	if err != nil {
		return nil, err
	}

	logger.Info("Playlist loaded",
		zap.String("dir", p.dir),
		zap.Int("images", len(p.paths)))

	return p, nil
}

// Scan lists the supported images in dir, sorted by path
func Scan(dir string) (*Playlist, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectory, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s (supported: jpg, jpeg, png, bmp, gif)", domain.ErrEmptyPlaylist, dir)
	}

	slices.Sort(paths)

	return &Playlist{dir: dir, paths: paths}, nil
}

// IsSupported reports whether name has a supported image extension, ignoring case
func IsSupported(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Len returns the number of images
func (p *Playlist) Len() int {
	return len(p.paths)
}

// At returns the path at index i, wrapping in both directions
func (p *Playlist) At(i int) string {
	return p.paths[Wrap(i, len(p.paths))]
}

// Paths returns a copy of the ordered paths
func (p *Playlist) Paths() []string {
	return slices.Clone(p.paths)
}

// Dir returns the scanned directory
func (p *Playlist) Dir() string {
	return p.dir
}

// Wrap maps any integer onto [0, n). n must be positive.
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
