package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
)

type FeedbackUseCase struct {
	repo     interfaces.Repository
	recorder interfaces.SubmissionRecorder
	now      func() time.Time
}

// SubmitFeedback stores an evaluation. More than MaxSelections metrics per list is logged, not rejected.
func (uc *FeedbackUseCase) SubmitFeedback(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	if feedback == nil {
		return nil, goerr.Wrap(ErrInvalidInput, "feedback is required")
	}
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidInput, err), "invalid feedback")
	}

	exceeds := feedback.ExceedsIntended()
	if exceeds {
		logging.From(ctx).Warn("feedback selects more metrics than intended",
			"valuable", len(feedback.Valuable),
			"not_valuable", len(feedback.NotValuable),
			"intended", model.MaxSelections,
		)
	}

	record := feedback.Copy()
	record.ID = ""
	record.ReceivedAt = uc.now().UTC()
	if record.Timestamp.IsZero() {
		record.Timestamp = record.ReceivedAt
	}

	created, err := uc.repo.Feedback().Create(ctx, record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store feedback")
	}

	uc.recorder.FeedbackRecorded(exceeds)
	return created, nil
}

func (uc *FeedbackUseCase) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	list, err := uc.repo.Feedback().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list feedback")
	}
	if list == nil {
		list = []*model.Feedback{}
	}
	return list, nil
}
