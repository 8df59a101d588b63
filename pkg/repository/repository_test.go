package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/repository/file"
	"github.com/secmon-lab/qaboard/pkg/repository/firestore"
	"github.com/secmon-lab/qaboard/pkg/repository/memory"
	"github.com/secmon-lab/qaboard/pkg/repository/sqlstore"
)

func runRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("KPI series are empty before first put", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		series, err := repo.KPI().GetSeries(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(series)).Equal(0)

		targets, err := repo.KPI().GetTargets(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(targets)).Equal(0)
	})

	t.Run("PutSeries replaces the whole dataset", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.KPI().PutSeries(ctx, model.KPISeries{
			types.MetricDefectDensity: {0.8, 0.7, 0.6, 0.5},
			types.MetricTestCoverage:  {70, 75, 80, 85},
		})).Required()
		gt.NoError(t, repo.KPI().PutSeries(ctx, model.KPISeries{
			types.MetricMTTD: {12, 10, 9, 8},
		})).Required()

		series, err := repo.KPI().GetSeries(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(series)).Equal(1)
		gt.Array(t, series[types.MetricMTTD]).Equal([]float64{12, 10, 9, 8})
		gt.Bool(t, series.Has(types.MetricDefectDensity)).False()
	})

	t.Run("GetSeries returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.KPI().PutSeries(ctx, model.KPISeries{
			types.MetricDefectDensity: {0.8, 0.7, 0.6, 0.5},
		})).Required()

		series, err := repo.KPI().GetSeries(ctx)
		gt.NoError(t, err).Required()
		series[types.MetricDefectDensity][0] = 99

		again, err := repo.KPI().GetSeries(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, again[types.MetricDefectDensity][0]).Equal(0.8)
	})

	t.Run("PutTargets replaces the whole dataset", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.KPI().PutTargets(ctx, model.KPITargets{
			types.MetricDefectDensity: 0.5,
			types.MetricTestCoverage:  80,
		})).Required()
		gt.NoError(t, repo.KPI().PutTargets(ctx, model.KPITargets{
			types.MetricTestCoverage: 90,
		})).Required()

		targets, err := repo.KPI().GetTargets(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(targets)).Equal(1)
		v, ok := targets.Get(types.MetricTestCoverage)
		gt.Bool(t, ok).True()
		gt.Value(t, v).Equal(90.0)
	})

	t.Run("ListPredefined keeps catalog order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		catalog := []*model.PredefinedRisk{
			{ID: "R3", Description: "Unstable test environment"},
			{ID: "R1", Description: "Late requirement changes"},
			{ID: "R2", Description: "Insufficient regression suite"},
		}
		gt.NoError(t, repo.Risk().PutPredefined(ctx, catalog)).Required()

		got, err := repo.Risk().ListPredefined(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, got).Length(3).Required()
		gt.Value(t, got[0].ID).Equal(types.RiskID("R3"))
		gt.Value(t, got[1].ID).Equal(types.RiskID("R1"))
		gt.Value(t, got[2].ID).Equal(types.RiskID("R2"))
		gt.Value(t, got[0].Description).Equal("Unstable test environment")
	})

	t.Run("Promote moves a catalog entry into the matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.Risk().PutPredefined(ctx, []*model.PredefinedRisk{
			{ID: "R1", Description: "Late requirement changes"},
			{ID: "R2", Description: "Insufficient regression suite"},
		})).Required()

		created, err := repo.Risk().Promote(ctx, &model.Risk{
			ID:          "R1",
			Description: "Late requirement changes",
			Likelihood:  4,
			Impact:      5,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(types.RiskID("R1"))
		gt.Bool(t, created.CreatedAt.IsZero()).False()

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1).Required()
		gt.Value(t, risks[0].Likelihood).Equal(types.Likelihood(4))
		gt.Value(t, risks[0].Impact).Equal(types.Impact(5))
		gt.Value(t, risks[0].Severity()).Equal(types.SeverityRed)

		remaining, err := repo.Risk().ListPredefined(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, remaining).Length(1).Required()
		gt.Value(t, remaining[0].ID).Equal(types.RiskID("R2"))
	})

	t.Run("Promote rejects a risk already in the matrix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		risk := &model.Risk{ID: "R1", Description: "Late requirement changes", Likelihood: 2, Impact: 2}
		_, err := repo.Risk().Promote(ctx, risk)
		gt.NoError(t, err).Required()

		_, err = repo.Risk().Promote(ctx, risk)
		gt.Error(t, err).Is(interfaces.ErrAlreadyExists)

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1)
	})

	t.Run("List returns risks in submission order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i, id := range []types.RiskID{"R9", "R2", "R5"} {
			_, err := repo.Risk().Promote(ctx, &model.Risk{
				ID:         id,
				Likelihood: types.Likelihood(i + 1),
				Impact:     3,
			})
			gt.NoError(t, err).Required()
		}

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(3).Required()
		gt.Value(t, risks[0].ID).Equal(types.RiskID("R9"))
		gt.Value(t, risks[1].ID).Equal(types.RiskID("R2"))
		gt.Value(t, risks[2].ID).Equal(types.RiskID("R5"))
	})

	t.Run("concurrent Promote of the same ID stores it once", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = repo.Risk().Promote(ctx, &model.Risk{ID: "R7", Likelihood: 1, Impact: 1})
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		gt.Value(t, succeeded).Equal(1)

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, risks).Length(1)
	})

	t.Run("Create stores feedback with an ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		created, err := repo.Feedback().Create(ctx, &model.Feedback{
			Valuable:      []types.MetricName{types.MetricDefectDensity, types.MetricMTTD},
			NotValuable:   []types.MetricName{types.MetricChecklistAdherence},
			Justification: "MTTD drives our release decisions",
			Timestamp:     ts,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.FeedbackID(""))
		gt.Bool(t, created.ReceivedAt.IsZero()).False()

		list, err := repo.Feedback().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1).Required()
		gt.Value(t, list[0].ID).Equal(created.ID)
		gt.Array(t, list[0].Valuable).Equal([]types.MetricName{types.MetricDefectDensity, types.MetricMTTD})
		gt.Array(t, list[0].NotValuable).Equal([]types.MetricName{types.MetricChecklistAdherence})
		gt.Value(t, list[0].Justification).Equal("MTTD drives our release decisions")
		gt.Bool(t, list[0].Timestamp.Equal(ts)).True()
	})

	t.Run("List returns feedback in received order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			_, err := repo.Feedback().Create(ctx, &model.Feedback{
				Justification: fmt.Sprintf("entry %d", i),
				Timestamp:     base,
				ReceivedAt:    base.Add(time.Duration(i) * time.Second),
			})
			gt.NoError(t, err).Required()
		}

		list, err := repo.Feedback().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(3).Required()
		for i, f := range list {
			gt.Value(t, f.Justification).Equal(fmt.Sprintf("entry %d", i))
		}
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	// A fresh prefix per test keeps collections isolated
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "qaboard.db")
	repo, err := sqlstore.New(context.Background(), sqlstore.DriverSQLite, dsn)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := sqlstore.New(ctx, sqlstore.DriverPostgres, dsn)
	gt.NoError(t, err).Required()
	gt.NoError(t, sqlstore.Truncate(ctx, repo)).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFileRepository(t *testing.T) {
	runRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := file.New(t.TempDir())
		gt.NoError(t, err).Required()
		return repo
	})
}

func TestSQLiteRepository(t *testing.T) {
	runRepositoryTest(t, newSQLiteRepository)
}

func TestPostgresRepository(t *testing.T) {
	runRepositoryTest(t, newPostgresRepository)
}

func TestFirestoreRepository(t *testing.T) {
	runRepositoryTest(t, newFirestoreRepository)
}

func TestFileRepositoryPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := file.New(dir)
	gt.NoError(t, err).Required()
	_, err = repo.Risk().Promote(ctx, &model.Risk{ID: "R1", Likelihood: 3, Impact: 3})
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Close())

	reopened, err := file.New(dir)
	gt.NoError(t, err).Required()
	risks, err := reopened.Risk().List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, risks).Length(1).Required()
	gt.Value(t, risks[0].Severity()).Equal(types.SeverityOrange)
}
