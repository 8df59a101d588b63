package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/repository/file"
	"github.com/secmon-lab/qaboard/pkg/utils/safe"
)

func TestPromoteRestoresCatalogWhenRiskWriteFails(t *testing.T) {
	ctx := context.Background()
	repo, err := file.New(t.TempDir())
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Risk().PutPredefined(ctx, []*model.PredefinedRisk{
		{ID: "R1", Description: "Late requirement changes"},
		{ID: "R2", Description: "Flaky test environment"},
	})).Required()

	errDisk := errors.New("disk full")
	repo.SetWriteFileForTest(func(ctx context.Context, path string, data []byte, perm os.FileMode) error {
		if filepath.Base(path) == file.RiskFile {
			return errDisk
		}
		return safe.WriteFile(ctx, path, data, perm)
	})

	_, err = repo.Risk().Promote(ctx, &model.Risk{ID: "R1", Likelihood: 3, Impact: 4})
	gt.Error(t, err).Is(errDisk)

	catalog, err := repo.Risk().ListPredefined(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, catalog).Length(2)
	risks, err := repo.Risk().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(0)

	// A retry succeeds once the disk recovers
	repo.SetWriteFileForTest(safe.WriteFile)
	created, err := repo.Risk().Promote(ctx, &model.Risk{ID: "R1", Likelihood: 3, Impact: 4})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).Equal("R1")

	catalog, err = repo.Risk().ListPredefined(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, catalog).Length(1)
}

func TestCorruptDataFile(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{name: "null risk", file: file.RiskFile, content: `[null]`, want: model.ErrNilEntry},
		{name: "null catalog entry", file: file.PredefinedRiskFile, content: `[{"id":"R1"},null]`, want: model.ErrNilEntry},
		{name: "null feedback", file: file.FeedbackFile, content: `[null]`, want: model.ErrNilEntry},
		{name: "risk off the scale", file: file.RiskFile, content: `[{"id":"R1","likelihood":9,"impact":1}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			gt.NoError(t, os.WriteFile(filepath.Join(dir, tc.file), []byte(tc.content), 0o600)).Required()
			repo, err := file.New(dir)
			gt.NoError(t, err).Required()

			switch tc.file {
			case file.RiskFile:
				_, err = repo.Risk().Promote(ctx, &model.Risk{ID: "R2", Likelihood: 1, Impact: 1})
				gt.Error(t, err)
				_, err = repo.Risk().List(ctx)
			case file.PredefinedRiskFile:
				_, err = repo.Risk().Promote(ctx, &model.Risk{ID: "R2", Likelihood: 1, Impact: 1})
				gt.Error(t, err)
				_, err = repo.Risk().ListPredefined(ctx)
			case file.FeedbackFile:
				_, err = repo.Feedback().Create(ctx, &model.Feedback{Justification: "x"})
				gt.Error(t, err)
				_, err = repo.Feedback().List(ctx)
			}
			if tc.want != nil {
				gt.Error(t, err).Is(tc.want)
			} else {
				gt.Error(t, err)
			}
		})
	}
}
