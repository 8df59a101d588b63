package usecase

import (
	"time"

	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/domain/types"
	"github.com/secmon-lab/qaboard/pkg/utils/async"
)

type UseCases struct {
	repo        interfaces.Repository
	definitions model.MetricDefinitions
	notifier    interfaces.RiskNotifier
	recorder    interfaces.SubmissionRecorder
	dispatcher  *async.Dispatcher
	now         func() time.Time

	KPI      *KPIUseCase
	Risk     *RiskUseCase
	Feedback *FeedbackUseCase
}

type Option func(*UseCases)

// WithMetricDefinitions replaces the built-in direction table
func WithMetricDefinitions(defs model.MetricDefinitions) Option {
	return func(uc *UseCases) {
		uc.definitions = defs
	}
}

// WithNotifier announces promoted risks, e.g. to Slack
func WithNotifier(n interfaces.RiskNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func WithRecorder(r interfaces.SubmissionRecorder) Option {
	return func(uc *UseCases) {
		uc.recorder = r
	}
}

// WithDispatcher sets the dispatcher running notifications. The caller owns Wait.
func WithDispatcher(d *async.Dispatcher) Option {
	return func(uc *UseCases) {
		uc.dispatcher = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		definitions: model.DefaultMetricDefinitions(),
		recorder:    nopRecorder{},
		dispatcher:  &async.Dispatcher{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.KPI = &KPIUseCase{repo: repo, definitions: uc.definitions}
	uc.Risk = &RiskUseCase{
		repo:       repo,
		notifier:   uc.notifier,
		recorder:   uc.recorder,
		dispatcher: uc.dispatcher,
	}
	uc.Feedback = &FeedbackUseCase{
		repo:     repo,
		recorder: uc.recorder,
		now:      uc.now,
	}

	return uc
}

type nopRecorder struct{}

func (nopRecorder) RiskPromoted(types.Severity) {}
func (nopRecorder) FeedbackRecorded(bool)       {}
