package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

type riskRepository struct {
	db *sqlx.DB
}

type riskRow struct {
	ID          string `db:"id"`
	Description string `db:"description"`
	Likelihood  int    `db:"likelihood"`
	Impact      int    `db:"impact"`
	Seq         int64  `db:"seq"`
	CreatedAt   int64  `db:"created_at"`
}

func (row *riskRow) toModel() *model.Risk {
	return &model.Risk{
		ID:          types.RiskID(row.ID),
		Description: row.Description,
		Likelihood:  types.Likelihood(row.Likelihood),
		Impact:      types.Impact(row.Impact),
		CreatedAt:   time.Unix(0, row.CreatedAt).UTC(),
	}
}

type predefinedRow struct {
	ID          string `db:"id"`
	Description string `db:"description"`
	Position    int    `db:"position"`
}

func (r *riskRepository) List(ctx context.Context) ([]*model.Risk, error) {
	var rows []riskRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT id, description, likelihood, impact, seq, created_at FROM risks ORDER BY seq`); err != nil {
		return nil, goerr.Wrap(err, "failed to select risks")
	}

	risks := make([]*model.Risk, len(rows))
	for i := range rows {
		risks[i] = rows[i].toModel()
	}
	return risks, nil
}

func (r *riskRepository) ListPredefined(ctx context.Context) ([]*model.PredefinedRisk, error) {
	var rows []predefinedRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT id, description, position FROM predefined_risks ORDER BY position`); err != nil {
		return nil, goerr.Wrap(err, "failed to select predefined risks")
	}

	catalog := make([]*model.PredefinedRisk, len(rows))
	for i, row := range rows {
		catalog[i] = &model.PredefinedRisk{
			ID:          types.RiskID(row.ID),
			Description: row.Description,
		}
	}
	return catalog, nil
}

func (r *riskRepository) PutPredefined(ctx context.Context, catalog []*model.PredefinedRisk) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM predefined_risks`); err != nil {
			return goerr.Wrap(err, "failed to clear predefined risks")
		}
		query := tx.Rebind(`INSERT INTO predefined_risks (id, description, position) VALUES (?, ?, ?)`)
		for i, p := range catalog {
			if _, err := tx.ExecContext(ctx, query, p.ID.String(), p.Description, i); err != nil {
				return goerr.Wrap(err, "failed to insert predefined risk", goerr.V(model.RiskIDKey, p.ID))
			}
		}
		return nil
	})
}

func (r *riskRepository) Promote(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	created := risk.Copy()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM risks WHERE id = ?`), risk.ID.String()); err != nil {
			return goerr.Wrap(err, "failed to check risk", goerr.V(model.RiskIDKey, risk.ID))
		}
		if exists > 0 {
			return goerr.Wrap(interfaces.ErrAlreadyExists, "risk already in matrix", goerr.V(model.RiskIDKey, risk.ID))
		}

		var seq int64
		if err := tx.GetContext(ctx, &seq, `SELECT COALESCE(MAX(seq), 0) + 1 FROM risks`); err != nil {
			return goerr.Wrap(err, "failed to allocate risk sequence")
		}

		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO risks (id, description, likelihood, impact, seq, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
			created.ID.String(), created.Description, int(created.Likelihood), int(created.Impact), seq, created.CreatedAt.UnixNano(),
		); err != nil {
			if isUniqueViolation(err) {
				return goerr.Wrap(interfaces.ErrAlreadyExists, "risk already in matrix", goerr.V(model.RiskIDKey, risk.ID))
			}
			return goerr.Wrap(err, "failed to insert risk", goerr.V(model.RiskIDKey, risk.ID))
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM predefined_risks WHERE id = ?`), created.ID.String()); err != nil {
			return goerr.Wrap(err, "failed to remove predefined risk", goerr.V(model.RiskIDKey, risk.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Round-trip through the stored precision
	created.CreatedAt = time.Unix(0, created.CreatedAt.UnixNano()).UTC()
	return created, nil
}
