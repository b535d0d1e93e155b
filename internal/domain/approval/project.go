package approval

import (
	"fmt"
	"time"

	"github.com/travelport/order-approval/internal/domain/entity"
)

const (
	detailsLinkFormat  = "/forms/details?formId=%s"
	editLinkFormat     = "/forms/edit?formId=%s"
	approvalLinkFormat = "/forms/approve?formId=%s"
)

// View is the per-viewer read model of a submission: whose decision the
// submission is waiting on, which actors have approved so far, and which
// navigation links this particular viewer gets.
type View struct {
	ID                  string    `json:"id"`
	Status              string    `json:"status"`
	Initiator           string    `json:"initiator"`
	SubmittedOn         time.Time `json:"submitted_on"`
	PendingApprovalFrom string    `json:"pending_approval_from,omitempty"`
	// ApprovedActors holds the approver1 actor in slot 0 and the approver2
	// actor in slot 1; a slot is empty until that stage's approval counts.
	ApprovedActors [2]string `json:"approved_actors"`
	DetailsLink    string    `json:"details_link"`
	EditLink       string    `json:"edit_link,omitempty"`
	ApprovalLink   string    `json:"approval_link,omitempty"`
}

// Project computes the read-only view of a submission for one viewer. It
// never mutates anything and is safe to call concurrently.
//
// Evaluation order matters: approver1 is checked first and approver2 is only
// consulted when approver1 is not pending. An approver2 approval recorded
// out of order is therefore not surfaced until stage 1 resolves.
func Project(sub *entity.Submission, a1, a2 *entity.ApproverRecord, viewer string) View {
	v := View{
		ID:          sub.ID,
		Status:      sub.Status,
		Initiator:   sub.Initiator,
		SubmittedOn: sub.SubmittedOn,
		DetailsLink: fmt.Sprintf(detailsLinkFormat, sub.ID),
	}

	if a1 != nil {
		switch ApproverStatus(a1.Status) {
		case ApproverPending:
			v.PendingApprovalFrom = a1.Actor
		case ApproverApproved:
			v.ApprovedActors[0] = a1.Actor
		}
	}

	firstPending := a1 != nil && ApproverStatus(a1.Status) == ApproverPending
	if a2 != nil && !firstPending && Mode(sub.ApproverMode) == ModeDual {
		switch ApproverStatus(a2.Status) {
		case ApproverPending:
			v.PendingApprovalFrom = a2.Actor
		case ApproverApproved:
			v.ApprovedActors[1] = a2.Actor
		}
	}

	if viewer == sub.Initiator {
		v.EditLink = fmt.Sprintf(editLinkFormat, sub.ID)
	} else if v.PendingApprovalFrom != "" && viewer == v.PendingApprovalFrom {
		// Only the actor whose decision is actually awaited gets the
		// approval link.
		v.ApprovalLink = fmt.Sprintf(approvalLinkFormat, sub.ID)
	}

	return v
}
