package testingutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates the given files (relative to dir) with their content,
// creating missing parent directories
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func ReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// CreatePwmChip creates a fake sysfs pwm chip with an already exported channel 0
// that has not been configured yet
func CreatePwmChip(t *testing.T) string {
	chip := t.TempDir()
	WriteFiles(t, chip, map[string]string{
		"export":          "",
		"pwm0/duty_cycle": "3000",
		"pwm0/period":     "0",
		"pwm0/polarity":   "inversed",
		"pwm0/enable":     "0",
	})
	return chip
}

// CreateHwMonDevice creates a fake hwmon device directory with the given files
func CreateHwMonDevice(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	WriteFiles(t, dir, files)
	return dir
}
