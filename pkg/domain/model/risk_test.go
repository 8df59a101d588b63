package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

func TestValidateRisks(t *testing.T) {
	valid := &model.Risk{ID: "R1", Likelihood: 2, Impact: 3}

	gt.NoError(t, model.ValidateRisks(nil))
	gt.NoError(t, model.ValidateRisks([]*model.Risk{valid}))
	gt.Error(t, model.ValidateRisks([]*model.Risk{valid, nil})).Is(model.ErrNilEntry)
	gt.Error(t, model.ValidateRisks([]*model.Risk{{ID: "R2", Likelihood: 0, Impact: 3}})).Is(types.ErrOutOfRange)

	gt.NoError(t, model.ValidatePredefinedRisks([]*model.PredefinedRisk{{ID: "R1"}}))
	gt.Error(t, model.ValidatePredefinedRisks([]*model.PredefinedRisk{nil})).Is(model.ErrNilEntry)
}

func TestNewRiskMatrixIgnoresNull(t *testing.T) {
	m := model.NewRiskMatrix([]*model.Risk{nil, {ID: "R1", Likelihood: 3, Impact: 4}})
	gt.Value(t, m.Count()).Equal(1)
	gt.Array(t, m.Skipped).Length(0)
	gt.Value(t, m.Cell(3, 4).Severity).Equal(types.SeverityOrange)
}

func TestDatasetRejectsNullEntries(t *testing.T) {
	d := &model.Dataset{Predefined: []*model.PredefinedRisk{{ID: "R1"}, nil}}
	gt.Error(t, d.Validate()).Is(model.ErrNilEntry)
}
