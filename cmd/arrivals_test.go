package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArrivalProfile_WithHeader(t *testing.T) {
	path := writeTempFile(t, "arrivals.csv", "period,arrival_rate\n06:00,2.3\n07:00,3.1\n08:00,4.6\n")
	rates, err := LoadArrivalProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.3, 3.1, 4.6}, rates)
}

func TestLoadArrivalProfile_WithoutHeader(t *testing.T) {
	path := writeTempFile(t, "arrivals.csv", "06:00,2.3\n07:00,3.1\n")
	rates, err := LoadArrivalProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.3, 3.1}, rates)
}

func TestLoadArrivalProfile_BadRate(t *testing.T) {
	path := writeTempFile(t, "arrivals.csv", "06:00,2.3\n07:00,oops\n")
	_, err := LoadArrivalProfile(path)
	assert.Error(t, err)
}

func TestLoadArrivalProfile_HeaderOnly(t *testing.T) {
	path := writeTempFile(t, "arrivals.csv", "period,arrival_rate\n")
	_, err := LoadArrivalProfile(path)
	assert.Error(t, err)
}

func TestLoadArrivalProfile_MissingFile(t *testing.T) {
	_, err := LoadArrivalProfile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
