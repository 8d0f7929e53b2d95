package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_String(t *testing.T) {
	chain := Chain{"kepala sekolah", "dirpen"}

	tests := []struct {
		name    string
		index   int
		outcome Outcome
		want    string
	}{
		{"first stage pending", 0, OutcomePending, "ditinjau kepala sekolah"},
		{"second stage pending", 1, OutcomePending, "disetujui kepala sekolah menunggu tinjauan dirpen"},
		{"final approved", 1, OutcomeApproved, "disetujui dirpen"},
		{"rejected at first", 0, OutcomeRejected, "ditolak kepala sekolah"},
		{"rejected at final", 1, OutcomeRejected, "ditolak dirpen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chain.StatusAt(tt.index, tt.outcome).String())
		})
	}
}

func TestStatus_IntermediateNamesFinalRole(t *testing.T) {
	chain := Chain{"wali kelas", "kepala sekolah", "dirpen"}

	assert.Equal(t, "ditinjau wali kelas", chain.StatusAt(0, OutcomePending).String())
	assert.Equal(t, "disetujui wali kelas menunggu tinjauan dirpen", chain.StatusAt(1, OutcomePending).String())
	assert.Equal(t, "disetujui kepala sekolah menunggu tinjauan dirpen", chain.StatusAt(2, OutcomePending).String())
	assert.Equal(t, "ditolak kepala sekolah", chain.StatusAt(1, OutcomeRejected).String())
	assert.Equal(t, "disetujui dirpen", chain.StatusAt(2, OutcomeApproved).String())
}

func TestStatus_ChainComplete(t *testing.T) {
	chain := Chain{"kepala sekolah", "dirpen"}
	assert.False(t, chain.StatusAt(0, OutcomeApproved).ChainComplete)
	assert.True(t, chain.StatusAt(1, OutcomeApproved).ChainComplete)
	assert.False(t, chain.StatusAt(1, OutcomeRejected).ChainComplete)
}
