package interfaces

import (
	"context"

	"github.com/secmon-lab/qaboard/pkg/domain/model"
)

type FeedbackRepository interface {
	// Create stores feedback, assigning ID and ReceivedAt when empty
	Create(ctx context.Context, feedback *model.Feedback) (*model.Feedback, error)

	// List retrieves all feedback in the order it was received
	List(ctx context.Context) ([]*model.Feedback, error)
}
