package memory

import (
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
)

type Memory struct {
	kpi      *kpiRepository
	risk     *riskRepository
	feedback *feedbackRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		kpi:      newKPIRepository(),
		risk:     newRiskRepository(),
		feedback: newFeedbackRepository(),
	}
}

func (m *Memory) KPI() interfaces.KPIRepository {
	return m.kpi
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Feedback() interfaces.FeedbackRepository {
	return m.feedback
}

func (m *Memory) Close() error {
	return nil
}
