package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	roleHead     = user.Role("kepala sekolah")
	roleDirector = user.Role("dirpen")
	roleTeacher  = user.Role("guru")
)

func newRequest(t *testing.T, chain Chain) LeaveRequest {
	t.Helper()
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	req, err := NewLeaveRequest("u-requester", LeaveTypeAnnual, now, now.AddDate(0, 0, 2), "keluarga", chain, now)
	require.NoError(t, err)
	return req
}

func TestNewLeaveRequest_EmptyChain(t *testing.T) {
	now := time.Now()
	_, err := NewLeaveRequest("u1", LeaveTypeAnnual, now, now, "", nil, now)
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestNewLeaveRequest_CopiesChain(t *testing.T) {
	chain := Chain{roleHead, roleDirector}
	req := newRequest(t, chain)
	chain[0] = "changed"
	assert.Equal(t, roleHead, req.Chain[0])
	assert.Equal(t, "ditinjau kepala sekolah", req.Status().String())
}

func TestWorkflow_EndToEnd(t *testing.T) {
	req := newRequest(t, Chain{roleHead, roleDirector})
	now := req.CreatedAt.Add(time.Hour)

	assert.Equal(t, "ditinjau kepala sekolah", req.Status().String())

	_, err := req.Approve("u-head", []user.Role{roleHead}, "", now)
	require.NoError(t, err)
	assert.Equal(t, "disetujui kepala sekolah menunggu tinjauan dirpen", req.Status().String())
	assert.False(t, req.IsTerminal())

	review, err := req.Reject("u-dir", []user.Role{roleDirector}, "tidak lengkap", now)
	require.NoError(t, err)
	assert.Equal(t, "ditolak dirpen", req.Status().String())
	assert.Equal(t, 1, review.StageIndex)
	assert.Equal(t, OutcomeRejected, review.Outcome)
	require.NotNil(t, req.Comment)
	assert.Equal(t, "tidak lengkap", *req.Comment)

	_, err = req.Approve("u-dir", []user.Role{roleDirector}, "", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = req.Reject("u-dir", []user.Role{roleDirector}, "lagi", now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "ditolak dirpen", req.Status().String())
}

func TestWorkflow_SingleStage(t *testing.T) {
	req := newRequest(t, Chain{roleHead})
	assert.Equal(t, "ditinjau kepala sekolah", req.Status().String())

	_, err := req.Approve("u-head", []user.Role{roleHead}, "ok", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "disetujui kepala sekolah", req.Status().String())
	assert.True(t, req.Status().ChainComplete)
}

func TestWorkflow_StageSkippingForbidden(t *testing.T) {
	req := newRequest(t, Chain{roleHead, roleDirector})

	_, err := req.Approve("u-dir", []user.Role{roleDirector}, "", time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "ditinjau kepala sekolah", req.Status().String())
	assert.Nil(t, req.ReviewedBy)

	_, err = req.Approve("u-teacher", []user.Role{roleTeacher}, "", time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWorkflow_RejectRequiresComment(t *testing.T) {
	req := newRequest(t, Chain{roleHead})

	_, err := req.Reject("u-head", []user.Role{roleHead}, "   ", time.Now())
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "comment", verrs[0].Field)
	assert.Equal(t, OutcomePending, req.Outcome)
}

func TestWorkflow_IntermediateStringCount(t *testing.T) {
	chains := []Chain{
		{roleHead},
		{roleHead, roleDirector},
		{"r0", "r1", "r2", "r3"},
	}
	for _, chain := range chains {
		req := newRequest(t, chain)
		intermediate := 0
		for !req.IsTerminal() {
			if req.Status().IsIntermediate() {
				intermediate++
			}
			stage, _ := req.CurrentStage()
			_, err := req.Approve("u", []user.Role{stage}, "", time.Now())
			require.NoError(t, err)
		}
		assert.Equal(t, len(chain)-1, intermediate, "chain %v", chain)
		assert.Equal(t, "disetujui "+string(chain.Final()), req.Status().String())
	}
}

func TestLeaveRequest_Covers(t *testing.T) {
	req := newRequest(t, Chain{roleHead})
	assert.True(t, req.Covers(req.StartDate))
	assert.True(t, req.Covers(req.EndDate.Add(23*time.Hour)))
	assert.False(t, req.Covers(req.EndDate.AddDate(0, 0, 1)))
	assert.False(t, req.Covers(req.StartDate.AddDate(0, 0, -1)))
}
