package candidate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/dataio"
	"github.com/jonathan/resume-docx/internal/schemas"
	"github.com/jonathan/resume-docx/internal/types"
	schemafiles "github.com/jonathan/resume-docx/schemas"
)

// Options controls how a candidate file is loaded.
type Options struct {
	// Strict validates the file against the candidate schema before decoding.
	Strict bool
	Logger *zap.Logger
}

// Load reads a YAML, JSON or JSONC candidate record and normalizes it.
// Without Strict, fields that fail to decode are dropped and logged.
func Load(path string, opts Options) (*types.Candidate, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := dataio.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}
	format := dataio.FormatFor(path)

	if opts.Strict {
		var doc interface{}
		if err := dataio.Unmarshal(data, format, &doc); err != nil {
			return nil, &LoadError{Message: "failed to decode candidate", Cause: err}
		}
		if err := schemas.ValidateDocument(schemafiles.Candidate, doc); err != nil {
			return nil, &LoadError{Message: "schema validation failed", Cause: err}
		}
	}

	var c types.Candidate
	if err := dataio.Unmarshal(data, format, &c); err != nil {
		return nil, &LoadError{Message: "failed to decode candidate", Cause: err}
	}
	for _, s := range c.DecodeSkips() {
		logger.Warn("candidate field dropped",
			zap.String("path", path),
			zap.String("field", s.Field),
			zap.Int("line", s.Line),
			zap.NamedError("reason", s.Err))
	}

	Normalize(&c)
	return &c, nil
}
