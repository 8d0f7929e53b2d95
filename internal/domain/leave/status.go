package leave

import (
	"strings"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

type Outcome string

const (
	OutcomePending  Outcome = "pending"
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Status display vocabulary. Dashboards filter on these substrings.
const (
	wordReviewing = "ditinjau"
	wordApproved  = "disetujui"
	wordRejected  = "ditolak"
	wordWaiting   = "menunggu tinjauan"
)

// Chain is the ordered list of reviewer roles a request passes through.
type Chain []user.Role

func (c Chain) Len() int { return len(c) }

func (c Chain) Final() user.Role {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

func (c Chain) IsLast(i int) bool {
	return i == len(c)-1
}

func (c Chain) Strings() []string {
	out := make([]string, len(c))
	for i, r := range c {
		out[i] = string(r)
	}
	return out
}

func ChainFromStrings(roles []string) Chain {
	out := make(Chain, len(roles))
	for i, r := range roles {
		out[i] = user.Role(r)
	}
	return out
}

// Status is the tagged form of a request's state:
// Pending(stage), Approved(final) or Rejected(stage).
type Status struct {
	Stage         user.Role
	StageIndex    int
	Outcome       Outcome
	ChainComplete bool

	// ApprovedStage is the stage that approved just before Stage, set only
	// while pending past the first stage.
	ApprovedStage user.Role

	// Final is the last role of the chain. Intermediate statuses name it.
	Final user.Role
}

// StatusAt builds the status for stage i with the given outcome.
func (c Chain) StatusAt(i int, outcome Outcome) Status {
	s := Status{StageIndex: i, Outcome: outcome, Final: c.Final()}
	if i >= 0 && i < len(c) {
		s.Stage = c[i]
	}
	if outcome == OutcomePending && i > 0 && i-1 < len(c) {
		s.ApprovedStage = c[i-1]
	}
	s.ChainComplete = outcome == OutcomeApproved && c.IsLast(i)
	return s
}

// String renders the wire form:
//
//	Pending(0)          "ditinjau R0"
//	Pending(i), i > 0   "disetujui R(i-1) menunggu tinjauan Rn"
//	Approved(final)     "disetujui Rn"
//	Rejected(i)         "ditolak Ri"
func (s Status) String() string {
	switch s.Outcome {
	case OutcomeApproved:
		return join(wordApproved, s.Stage)
	case OutcomeRejected:
		return join(wordRejected, s.Stage)
	default:
		if s.ApprovedStage != "" {
			return join(wordApproved, s.ApprovedStage) + " " + join(wordWaiting, s.Final)
		}
		return join(wordReviewing, s.Stage)
	}
}

// IsIntermediate reports whether s renders as a "menunggu tinjauan" string.
func (s Status) IsIntermediate() bool {
	return s.Outcome == OutcomePending && s.ApprovedStage != ""
}

func join(word string, role user.Role) string {
	return strings.TrimSpace(word + " " + string(role))
}
