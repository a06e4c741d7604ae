package submission

import (
	"strings"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// allowed lists the statuses each status may move to. Nothing moves back to
// pending; decided submissions can only be (re-)rejected.
var allowed = map[model.Status][]model.Status{
	model.StatusPending:                {model.StatusAccepted, model.StatusAcceptedWithConditions, model.StatusRejected},
	model.StatusAccepted:               {model.StatusRejected},
	model.StatusAcceptedWithConditions: {model.StatusRejected},
	model.StatusRejected:               {model.StatusRejected},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to model.Status) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NewStatusUpdate builds the update for a transition to status. detail is the
// conditions or the reason and is required for those two statuses. Fields
// that do not belong to the new status are cleared.
func NewStatusUpdate(status model.Status, detail string, at time.Time) (model.StatusUpdate, error) {
	detail = strings.TrimSpace(detail)
	update := model.StatusUpdate{Status: status, UpdatedAt: at.UTC()}
	switch status {
	case model.StatusAccepted:
	case model.StatusAcceptedWithConditions:
		if detail == "" {
			return model.StatusUpdate{}, invalid("acceptanceConditions", "Conditions cannot be empty.")
		}
		update.AcceptanceConditions = detail
	case model.StatusRejected:
		if detail == "" {
			return model.StatusUpdate{}, invalid("rejectionReason", "Reason cannot be empty.")
		}
		update.RejectionReason = detail
	default:
		return model.StatusUpdate{}, invalid("status", "Unsupported status "+string(status)+".")
	}
	return update, nil
}
