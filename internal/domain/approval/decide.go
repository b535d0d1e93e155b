package approval

import (
	"fmt"

	"github.com/travelport/order-approval/internal/domain/entity"
)

// Input carries everything the transition function needs: the submission's
// routing mode, the acting role and action, the current status of both
// approver slots, and the addresses notifications go to.
type Input struct {
	Mode           Mode
	Role           Role
	Action         Action
	Approver1      ApproverStatus
	Approver2      ApproverStatus
	Initiator      string
	Approver2Actor string
}

// Decision is the computed outcome of one approver action. It is pure data:
// the caller persists the statuses in one commit and dispatches the
// notifications afterwards.
type Decision struct {
	Approver1     ApproverStatus
	Approver2     ApproverStatus
	Submission    Status
	Notifications []entity.Notification
}

// Decide computes the new approver and submission statuses for an approve or
// reject action. The submission status is always re-derived from the two
// resulting approver statuses rather than set independently, so the cached
// column can never drift from the records it summarizes.
func Decide(in Input) (Decision, error) {
	if !in.Role.IsValid() {
		return Decision{}, fmt.Errorf("%w: %s", ErrInvalidRole, in.Role)
	}
	if !in.Action.IsValid() {
		return Decision{}, fmt.Errorf("%w: %s", ErrInvalidAction, in.Action)
	}

	d := Decision{
		Approver1: in.Approver1,
		Approver2: in.Approver2,
	}

	switch in.Action {
	case ActionApprove:
		if in.Role == RoleApprover1 {
			d.Approver1 = ApproverApproved
			if in.Mode == ModeDual {
				// Stage 1 done, hand the submission to stage 2.
				d.Approver2 = ApproverPending
				d.Notifications = []entity.Notification{
					stageOneApprovedNotice(in.Initiator),
					actionRequiredNotice(in.Approver2Actor),
				}
			}
		} else {
			d.Approver2 = ApproverApproved
		}

	case ActionReject:
		// Rejection is terminal regardless of which approver rejects;
		// there is no "reject stage 1, still ask stage 2" path.
		if in.Role == RoleApprover1 {
			d.Approver1 = ApproverRejected
		} else {
			d.Approver2 = ApproverRejected
		}
		d.Notifications = []entity.Notification{rejectedNotice(in.Initiator)}
	}

	d.Submission = DeriveStatus(in.Mode, d.Approver1, d.Approver2)
	return d, nil
}

// DeriveStatus computes the submission status from the two approver slot
// statuses and the routing mode. An unrecognized mode falls back to
// single-approver routing, so a stage-1 approval still finalizes.
func DeriveStatus(mode Mode, a1, a2 ApproverStatus) Status {
	if a1 == ApproverRejected || a2 == ApproverRejected {
		return StatusRejected
	}

	switch a1 {
	case ApproverApproved:
		if mode != ModeDual {
			return StatusApprovedFinal
		}
		if a2 == ApproverApproved {
			return StatusApprovedFinal
		}
		return StatusPendingApprover2
	default:
		return StatusPendingApprover1
	}
}

func stageOneApprovedNotice(initiator string) entity.Notification {
	return entity.Notification{
		Recipient: initiator,
		Subject:   "Approval 1 Approved",
		Body: "Hello,\n\n" +
			"Your request has been approved by Approver 1.\n" +
			"It is now moving to the next approval stage.\n\n" +
			"Thank you.\nTravelport Team",
	}
}

func actionRequiredNotice(approver string) entity.Notification {
	return entity.Notification{
		Recipient: approver,
		Subject:   "Action Required: Approval 2 Needed",
		Body: "Hello,\n\n" +
			"A request has been approved by Approver 1 and now needs your approval.\n" +
			"Please review and take action.\n\n" +
			"Thank you.\nTravelport Team",
	}
}

func rejectedNotice(initiator string) entity.Notification {
	return entity.Notification{
		Recipient: initiator,
		Subject:   "Request Rejected by Approver",
		Body: "Hello,\n\n" +
			"Your request has been rejected.\n" +
			"Please review the comments and make any necessary changes.\n\n" +
			"Thank you.\nTravelport Team",
	}
}
