package memory

import (
	"context"
	"sync"
	"time"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type feedbackRepository struct {
	mu       sync.RWMutex
	feedback []*model.Feedback
}

func newFeedbackRepository() *feedbackRepository {
	return &feedbackRepository{}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := feedback.Copy()
	if created.ID == "" {
		created.ID = model.NewFeedbackID()
	}
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}
	r.feedback = append(r.feedback, created)
	return created.Copy(), nil
}

func (r *feedbackRepository) List(ctx context.Context) ([]*model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*model.Feedback, 0, len(r.feedback))
	for _, f := range r.feedback {
		list = append(list, f.Copy())
	}
	return list, nil
}
