package scraper

import (
	"context"
	"fmt"
	"os"

	"github.com/mikey/conf-reminder/internal/core"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// manualFile is the layout of a hand-maintained conference list:
//
//	conferences:
//	  - acronym: ICML
//	    full_name: International Conference on Machine Learning
//	    deadlines: |
//	      Abstract Deadline: Jan 23, 2025 AoE
//	      Paper Submission Deadline: Jan 30, 2025 AoE
type manualFile struct {
	Conferences []core.RawConference `yaml:"conferences"`
}

// ManualSource reads conferences from a local YAML file
type ManualSource struct {
	path   string
	logger *zap.Logger
}

// NewManualSource creates a new manual source
func NewManualSource(path string, logger *zap.Logger) *ManualSource {
	return &ManualSource{
		path:   path,
		logger: logger,
	}
}

// Name returns the source name
func (s *ManualSource) Name() string {
	return "manual"
}

// Fetch reads and decodes the file on every call so edits apply on the next refresh
func (s *ManualSource) Fetch(ctx context.Context) ([]core.RawConference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manual conference file: %w", err)
	}

	var file manualFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse manual conference file %s: %w", s.path, err)
	}

	for i := range file.Conferences {
		file.Conferences[i].Source = s.Name()
	}

	s.logger.Debug("Loaded manual conferences",
		zap.String("path", s.path),
		zap.Int("count", len(file.Conferences)))

	return file.Conferences, nil
}
