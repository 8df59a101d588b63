package file

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type feedbackRepository struct {
	store *File
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	all, err := r.readAll()
	if err != nil {
		return nil, err
	}

	created := feedback.Copy()
	if created.ID == "" {
		created.ID = model.NewFeedbackID()
	}
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}
	if err := r.store.write(ctx, FeedbackFile, append(all, created)); err != nil {
		return nil, err
	}
	return created.Copy(), nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.Feedback, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.readAll()
}

func (r *feedbackRepository) readAll() ([]*model.Feedback, error) {
	all := []*model.Feedback{}
	if err := r.store.read(FeedbackFile, &all); err != nil {
		return nil, err
	}
	if err := model.RejectNil(all); err != nil {
		return nil, goerr.Wrap(err, "corrupt data file", goerr.V("file", FeedbackFile))
	}
	return all, nil
}
