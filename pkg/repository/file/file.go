package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/utils/safe"
)

// File names inside the data directory
const (
	KPIFile            = "kpis.json"
	KPITargetsFile     = "kpi_targets.json"
	RiskFile           = "risks.json"
	PredefinedRiskFile = "predefined_risks.json"
	FeedbackFile       = "feedback.json"
)

// File stores every dataset as an indented JSON document in one directory.
// A single lock serializes writers because promoting a risk touches two files.
type File struct {
	dir       string
	mu        sync.RWMutex
	writeFile func(ctx context.Context, path string, data []byte, perm os.FileMode) error

	kpi      *kpiRepository
	risk     *riskRepository
	feedback *feedbackRepository
}

var _ interfaces.Repository = &File{}

// New opens dir, creating it when missing
func New(dir string) (*File, error) {
	if dir == "" {
		return nil, goerr.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dir))
	}

	f := &File{dir: dir, writeFile: safe.WriteFile}
	f.kpi = &kpiRepository{store: f}
	f.risk = &riskRepository{store: f}
	f.feedback = &feedbackRepository{store: f}
	return f, nil
}

func (f *File) KPI() interfaces.KPIRepository {
	return f.kpi
}

func (f *File) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *File) Feedback() interfaces.FeedbackRepository {
	return f.feedback
}

func (f *File) Close() error {
	return nil
}

func (f *File) path(name string) string {
	return filepath.Join(f.dir, name)
}

// read decodes name into v. A missing file leaves v untouched.
func (f *File) read(name string, v any) error {
	path := f.path(name)
	// #nosec G304 - path is built from the configured data directory and a fixed file name
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to read data file", goerr.V("path", path))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return goerr.Wrap(err, "failed to parse data file", goerr.V("path", path))
	}
	return nil
}

func (f *File) write(ctx context.Context, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode data file", goerr.V("file", name))
	}
	return f.writeFile(ctx, f.path(name), data, 0o600)
}
