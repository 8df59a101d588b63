package model

import "github.com/secmon-lab/qaboard/pkg/domain/types"

// MatrixSize is the number of rows and columns of the risk matrix
const MatrixSize = types.ScaleMax

// MatrixCell holds the risks sharing a likelihood and impact
type MatrixCell struct {
	Likelihood types.Likelihood
	Impact     types.Impact
	Severity   types.Severity
	Risks      []*Risk
}

// RiskMatrix is a 5×5 grid indexed by [likelihood-1][impact-1]
type RiskMatrix struct {
	Cells [MatrixSize][MatrixSize]MatrixCell
	// Skipped holds entries whose likelihood or impact fall outside the scale
	Skipped []*Risk
}

// NewRiskMatrix buckets every risk into its cell. Risks keep their input order inside a cell.
func NewRiskMatrix(risks []*Risk) *RiskMatrix {
	m := &RiskMatrix{}
	for l := 0; l < MatrixSize; l++ {
		for i := 0; i < MatrixSize; i++ {
			likelihood := types.Likelihood(l + 1)
			impact := types.Impact(i + 1)
			m.Cells[l][i] = MatrixCell{
				Likelihood: likelihood,
				Impact:     impact,
				Severity:   types.SeverityOf(types.Score(likelihood, impact)),
			}
		}
	}

	for _, r := range risks {
		if r == nil {
			continue
		}
		if r.Likelihood.Validate() != nil || r.Impact.Validate() != nil {
			m.Skipped = append(m.Skipped, r)
			continue
		}
		cell := &m.Cells[r.Likelihood.Index()][r.Impact.Index()]
		cell.Risks = append(cell.Risks, r)
	}
	return m
}

// Cell returns the cell at the given likelihood and impact
func (m *RiskMatrix) Cell(l types.Likelihood, i types.Impact) MatrixCell {
	return m.Cells[l.Index()][i.Index()]
}

// Count returns the number of placed risks
func (m *RiskMatrix) Count() int {
	n := 0
	for l := range m.Cells {
		for i := range m.Cells[l] {
			n += len(m.Cells[l][i].Risks)
		}
	}
	return n
}
