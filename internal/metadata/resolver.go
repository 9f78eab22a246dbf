package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/artshow/internal/domain"
	"go.uber.org/zap"
)

const sidecarExt = ".json"

// SidecarResolver reads <name>.json next to each image
type SidecarResolver struct {
	logger        *zap.Logger
	filenameTitle bool
}

// NewSidecarResolver creates a resolver for colocated JSON sidecar files
func NewSidecarResolver(logger *zap.Logger, cfg domain.Config) *SidecarResolver {
	return &SidecarResolver{
		logger:        logger,
		filenameTitle: cfg.UseFilenameTitle(),
	}
}

// SidecarPath returns the metadata file path for an image path
func SidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + sidecarExt
}

// Resolve reads the sidecar for imagePath. Missing or malformed data never fails,
// each field falls back to domain.UnknownField on its own.
func (r *SidecarResolver) Resolve(imagePath string) domain.Metadata {
	sidecar := SidecarPath(imagePath)

	data, err := os.ReadFile(sidecar)
	if err != nil {
		meta := domain.DefaultMetadata()
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("Failed to read metadata file",
				zap.String("path", sidecar),
				zap.Error(err))
		} else if r.filenameTitle {
			meta.Title = strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		}
		return meta
	}

	meta, err := Parse(data)
	if err != nil {
		r.logger.Warn("Malformed metadata file, using defaults",
			zap.String("path", sidecar),
			zap.Error(err))
	}
	return meta
}

// Parse decodes sidecar JSON. Recognised keys are title, artist (strings) and
// year (string or number). On error the returned metadata holds only defaults.
func Parse(data []byte) (domain.Metadata, error) {
	meta := domain.DefaultMetadata()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return meta, fmt.Errorf("%w: %v", domain.ErrMetadataParse, err)
	}

	if v, ok := stringField(fields["title"]); ok {
		meta.Title = v
	}
	if v, ok := stringField(fields["artist"]); ok {
		meta.Artist = v
	}
	if v, ok := stringField(fields["year"]); ok {
		meta.Year = v
	} else if v, ok := numberField(fields["year"]); ok {
		meta.Year = v
	}

	return meta, nil
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// numberField keeps the literal text, so 1889 stays "1889" rather than "1889.0"
func numberField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", false
	}
	return n.String(), true
}
