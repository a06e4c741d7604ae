package submission

import (
	"errors"
	"log"
	"strings"

	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

// Result is the envelope every operation reports back to callers.
type Result struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	SubmissionID string            `json:"submissionId,omitempty"`
	Warning      string            `json:"warning,omitempty"`
	Errors       validation.Errors `json:"errors,omitempty"`
	Submission   *model.Submission `json:"submission,omitempty"`
}

// Messages reported on success.
const (
	MsgSubmitted              = "Project submitted successfully!"
	MsgDeleted                = "Submission deleted successfully."
	MsgAccepted               = "Project accepted."
	MsgAcceptedWithConditions = "Project accepted with conditions."
	MsgRejected               = "Project rejected."
)

// Submitted reports a successful Submit.
func Submitted(sub *model.Submission) Result {
	return Result{Success: true, Message: MsgSubmitted, SubmissionID: sub.ID}
}

// Outcome reports the result of an operation that may have partially
// succeeded: a *NotificationError keeps Success and becomes a warning.
func Outcome(message string, sub *model.Submission, err error) Result {
	var nerr *NotificationError
	if err != nil && !errors.As(err, &nerr) {
		return Failure(err)
	}
	r := Result{Success: true, Message: message, Submission: sub}
	if sub != nil {
		r.SubmissionID = sub.ID
	}
	if nerr != nil {
		r.Warning = "The client could not be notified by email."
	}
	return r
}

// Failure turns err into a message safe to show a user. Persistence detail
// is logged, not returned.
func Failure(err error) Result {
	var (
		verr *ValidationError
		perr *PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		msgs := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			msgs[i] = f.Message
		}
		return Result{Message: "Invalid data: " + strings.Join(msgs, " "), Errors: verr.Fields}
	case IsNotFound(err):
		return Result{Message: "Submission not found."}
	case errors.As(err, &perr):
		log.Printf("%s failed: %v", perr.Op, perr.Err)
		return Result{Message: "Failed to " + perr.Op + ". Please try again later."}
	default:
		log.Printf("unexpected error: %v", err)
		return Result{Message: "Something went wrong. Please try again later."}
	}
}
