package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_MemoryDriver(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER":           StorageDriverMemory,
		"JWT_SECRET_KEY":           "secret",
		"APP_TIMEZONE":             "UTC",
		"ATTENDANCE_SHIFT_START":   "07:30",
		"ATTENDANCE_GRACE_MINUTES": "10",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Attendance.GracePeriodMinutes)
	assert.Equal(t, 7*time.Hour+30*time.Minute, cfg.ShiftStartOffset())
	assert.Equal(t, DefaultChains(), cfg.Approval.Chains)
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER": StorageDriverPostgres,
		"JWT_SECRET_KEY": "secret",
		"APP_TIMEZONE":   "UTC",
		"DB_PASSWORD":    "",
	})

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestLoad_InvalidShiftStart(t *testing.T) {
	setEnv(t, map[string]string{
		"STORAGE_DRIVER":         StorageDriverMemory,
		"JWT_SECRET_KEY":         "secret",
		"APP_TIMEZONE":           "UTC",
		"ATTENDANCE_SHIFT_START": "7 pagi",
	})

	_, err := Load()
	assert.ErrorContains(t, err, "ATTENDANCE_SHIFT_START")
}

func TestLoad_ChainsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chains:\n  guru: [wakasek, kepala sekolah]\n"), 0o600))

	setEnv(t, map[string]string{
		"STORAGE_DRIVER":       StorageDriverMemory,
		"JWT_SECRET_KEY":       "secret",
		"APP_TIMEZONE":         "UTC",
		"APPROVAL_CHAINS_FILE": path,
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"wakasek", "kepala sekolah"}, cfg.Approval.Chains["guru"])
}

func TestParseChains(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", "chains:\n  guru: [kepala sekolah, dirpen]\n", false},
		{"empty table", "chains: {}\n", true},
		{"empty chain", "chains:\n  guru: []\n", true},
		{"blank role", "chains:\n  guru: [\"\", dirpen]\n", true},
		{"malformed", "chains: [\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChains([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseWorkDays(t *testing.T) {
	days, err := ParseWorkDays("Mon, tue,wed,thu,fri,sat,mon")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}, days)

	_, err = ParseWorkDays("mon,funday")
	assert.Error(t, err)

	_, err = ParseWorkDays(" , ")
	assert.Error(t, err)
}
