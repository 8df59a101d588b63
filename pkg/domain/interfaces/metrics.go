package interfaces

import "github.com/secmon-lab/qaboard/pkg/domain/types"

// SubmissionRecorder counts accepted submissions
type SubmissionRecorder interface {
	RiskPromoted(severity types.Severity)
	FeedbackRecorded(exceedsIntended bool)
}
