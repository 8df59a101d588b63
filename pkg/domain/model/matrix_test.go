package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
)

func TestNewRiskMatrix(t *testing.T) {
	t.Run("each risk lands in its cell exactly once", func(t *testing.T) {
		var risks []*model.Risk
		for l := 1; l <= 5; l++ {
			for i := 1; i <= 5; i++ {
				risks = append(risks, &model.Risk{
					ID:         types.RiskID("R" + string(rune('0'+l)) + string(rune('0'+i))),
					Likelihood: types.Likelihood(l),
					Impact:     types.Impact(i),
				})
			}
		}

		m := model.NewRiskMatrix(risks)
		gt.Value(t, m.Count()).Equal(len(risks))
		gt.Array(t, m.Skipped).Length(0)

		for _, r := range risks {
			found := 0
			for l := range m.Cells {
				for i := range m.Cells[l] {
					for _, placed := range m.Cells[l][i].Risks {
						if placed.ID == r.ID {
							found++
							gt.Value(t, l).Equal(int(r.Likelihood) - 1)
							gt.Value(t, i).Equal(int(r.Impact) - 1)
						}
					}
				}
			}
			gt.Value(t, found).Equal(1)
		}
	})

	t.Run("cell severity follows score bands", func(t *testing.T) {
		m := model.NewRiskMatrix(nil)
		gt.Value(t, m.Cell(2, 2).Severity).Equal(types.SeverityGreen)
		gt.Value(t, m.Cell(3, 3).Severity).Equal(types.SeverityYellow)
		gt.Value(t, m.Cell(4, 4).Severity).Equal(types.SeverityOrange)
		gt.Value(t, m.Cell(3, 4).Severity).Equal(types.SeverityOrange)
		gt.Value(t, m.Cell(5, 4).Severity).Equal(types.SeverityRed)
		gt.Value(t, m.Cell(1, 5).Severity).Equal(types.SeverityYellow)
	})

	t.Run("score 12 lands in an orange cell", func(t *testing.T) {
		risk := &model.Risk{ID: "R7", Description: "Late integration", Likelihood: 3, Impact: 4}
		m := model.NewRiskMatrix([]*model.Risk{risk})

		cell := m.Cell(3, 4)
		gt.Value(t, cell.Severity).Equal(types.SeverityOrange)
		gt.Array(t, cell.Risks).Length(1).Required()
		gt.Value(t, cell.Risks[0].ID).Equal(types.RiskID("R7"))
		gt.Value(t, cell.Risks[0].Description).Equal("Late integration")
	})

	t.Run("out of range entries are skipped", func(t *testing.T) {
		m := model.NewRiskMatrix([]*model.Risk{
			{ID: "bad", Likelihood: 0, Impact: 3},
			{ID: "ok", Likelihood: 1, Impact: 1},
		})
		gt.Value(t, m.Count()).Equal(1)
		gt.Array(t, m.Skipped).Length(1)
	})

	t.Run("risks sharing a cell keep input order", func(t *testing.T) {
		m := model.NewRiskMatrix([]*model.Risk{
			{ID: "first", Likelihood: 2, Impact: 2},
			{ID: "second", Likelihood: 2, Impact: 2},
		})
		cell := m.Cell(2, 2)
		gt.Array(t, cell.Risks).Length(2).Required()
		gt.Value(t, cell.Risks[0].ID).Equal(types.RiskID("first"))
		gt.Value(t, cell.Risks[1].ID).Equal(types.RiskID("second"))
	})
}
