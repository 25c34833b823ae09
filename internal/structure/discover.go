package structure

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/types"
)

// LegacyOutDir is searched after the configured output directory.
const LegacyOutDir = "_out"

var descriptorExts = []string{".json", ".yaml", ".yml"}

// Candidates lists, in search order, the structure files considered for a
// profile: nested files under each output directory, then flat
// <dir>/<profile>.structure.* files, then the profile's config directory.
func Candidates(profile, outDir, configDir string) []string {
	if profile == "" {
		return nil
	}
	if outDir == "" {
		outDir = "out"
	}
	if configDir == "" {
		configDir = "config"
	}
	dirs := []string{outDir}
	if filepath.Clean(outDir) != LegacyOutDir {
		dirs = append(dirs, LegacyOutDir)
	}

	var paths []string
	for _, dir := range dirs {
		for _, ext := range descriptorExts {
			paths = append(paths, filepath.Join(dir, profile, "structure"+ext))
		}
	}
	for _, dir := range dirs {
		for _, ext := range descriptorExts {
			paths = append(paths, filepath.Join(dir, profile+".structure"+ext))
		}
	}
	for _, ext := range descriptorExts {
		paths = append(paths, filepath.Join(configDir, "profiles", profile, "structure"+ext))
	}
	return paths
}

// LoadDescriptor reads an already-keyed structure file.
func LoadDescriptor(path string) (*types.Structure, error) {
	var st types.Structure
	if err := dataio.Load(path, &st); err != nil {
		return nil, &InferError{Source: path, Message: "failed to load structure", Cause: err}
	}
	return &st, nil
}

// Discover returns the first loadable structure file for profile, along
// with its path. Files that exist but fail to parse are logged and skipped.
// A nil structure means none was found.
func Discover(profile, outDir, configDir string, logger *zap.Logger) (*types.Structure, string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, path := range Candidates(profile, outDir, configDir) {
		if !dataio.Exists(path) {
			continue
		}
		st, err := LoadDescriptor(path)
		if err != nil {
			logger.Warn("structure file skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, skip := range st.DecodeSkips() {
			logger.Warn("structure field dropped", zap.String("path", path), zap.String("field", skip.Field), zap.Error(skip.Err))
		}
		return st, path
	}
	return nil, ""
}

// Source selects where a render's structure comes from.
type Source struct {
	// From is an explicit descriptor file, reference document or URL.
	From      string
	Profile   string
	OutDir    string
	ConfigDir string
	Fetcher   Fetcher
}

// Load resolves the structure for a render. An explicit From wins: keyed
// descriptor files load directly, anything else is inferred. Otherwise the
// profile's structure is discovered. A nil result without error means the
// template order applies. An explicit descriptor that fails to load, or a
// reference document with no recognised heading, also yields nil with a
// warning. A descriptor with an empty order keeps its meaning.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*types.Structure, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src.From != "" {
		if IsDescriptor(src.From) && !IsURL(src.From) {
			st, err := LoadDescriptor(src.From)
			if err != nil {
				logger.Warn("structure file skipped", zap.String("path", src.From), zap.Error(err))
				return nil, nil
			}
			return st, nil
		}
		st, err := Infer(ctx, src.Fetcher, src.From)
		if err != nil {
			return nil, err
		}
		if st == nil || len(st.Order) == 0 {
			logger.Warn("structure skipped",
				zap.String("source", src.From),
				zap.String("reason", "no recognised section headings"))
			return nil, nil
		}
		return st, nil
	}
	st, path := Discover(src.Profile, src.OutDir, src.ConfigDir, logger)
	if st != nil {
		logger.Debug("structure discovered", zap.String("path", path), zap.Strings("order", st.Order))
	}
	return st, nil
}
