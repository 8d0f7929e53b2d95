package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

type LeaveType string

const (
	LeaveTypeAnnual      LeaveType = "annual"
	LeaveTypeMaternity   LeaveType = "maternity"
	LeaveTypeMarriage    LeaveType = "marriage"
	LeaveTypeBereavement LeaveType = "bereavement"
	LeaveTypeCollective  LeaveType = "collective"
	LeaveTypeUnpaid      LeaveType = "unpaid" // salary deduction
	LeaveTypeOther       LeaveType = "other"
)

var leaveTypeLabels = map[LeaveType]string{
	LeaveTypeAnnual:      "cuti tahunan",
	LeaveTypeMaternity:   "cuti melahirkan",
	LeaveTypeMarriage:    "cuti menikah",
	LeaveTypeBereavement: "cuti duka",
	LeaveTypeCollective:  "cuti bersama",
	LeaveTypeUnpaid:      "cuti potong gaji",
	LeaveTypeOther:       "lainnya",
}

// AllLeaveTypes returns every accepted leave type
func AllLeaveTypes() []LeaveType {
	return []LeaveType{
		LeaveTypeAnnual,
		LeaveTypeMaternity,
		LeaveTypeMarriage,
		LeaveTypeBereavement,
		LeaveTypeCollective,
		LeaveTypeUnpaid,
		LeaveTypeOther,
	}
}

func (t LeaveType) Valid() bool {
	_, ok := leaveTypeLabels[t]
	return ok
}

// Label is the display name shown on dashboards.
func (t LeaveType) Label() string {
	return leaveTypeLabels[t]
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	RequesterID string
	LeaveType   LeaveType

	StartDate time.Time
	EndDate   time.Time

	Reason         string
	SupportingFile *string

	// Chain is the reviewer chain resolved at submission time.
	Chain      Chain
	StageIndex int
	Outcome    Outcome

	Comment    *string
	ReviewedBy *string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status returns the composite status of the request.
func (r *LeaveRequest) Status() Status {
	return r.Chain.StatusAt(r.StageIndex, r.Outcome)
}

// CurrentStage returns the role that must act next. ok is false once terminal.
func (r *LeaveRequest) CurrentStage() (role user.Role, ok bool) {
	if r.IsTerminal() {
		return "", false
	}
	return r.Chain[r.StageIndex], true
}

func (r *LeaveRequest) IsTerminal() bool {
	return r.Outcome != OutcomePending
}

// Covers reports whether date falls within the requested leave range.
func (r *LeaveRequest) Covers(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(truncateDay(r.StartDate)) && !d.After(truncateDay(r.EndDate))
}

// LeaveReview is one reviewer decision in the request's trail.
type LeaveReview struct {
	ID         string
	RequestID  string
	StageIndex int
	Role       user.Role
	ReviewerID string
	Outcome    Outcome
	Comment    *string
	CreatedAt  time.Time
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
