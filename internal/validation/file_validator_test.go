package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliverypulse/internal/shared/testutil"
)

func TestFileValidator_ValidateExtract(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr error
	}{
		{
			name:  "csv extract",
			setup: func(t *testing.T) string { return testutil.WriteExtract(t, testutil.SampleExtractRows()...) },
		},
		{
			name: "xlsx extension accepted",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "Train.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))
				return path
			},
		},
		{
			name:    "missing",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "train.csv") },
			wantErr: ErrNotExist,
		},
		{
			name: "directory",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "train.csv")
				require.NoError(t, os.Mkdir(path, 0o755))
				return path
			},
			wantErr: ErrNotAFile,
		},
		{
			name: "empty",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "train.csv")
				require.NoError(t, os.WriteFile(path, nil, 0o644))
				return path
			},
			wantErr: ErrEmptyFile,
		},
		{
			name:    "json",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "train.json") },
			wantErr: ErrExtension,
		},
		{
			name:    "excel lock file",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "~$train.xlsx") },
			wantErr: ErrTempFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			validator := NewFileValidator(logger)

			path := tt.setup(t)
			err := validator.ValidateExtract(path)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), path)
			testutil.AssertLogAttr(t, logs, "kind", "extract")
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("created when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "2022")
		require.NoError(t, validator.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "scratch file must be removed")
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		assert.ErrorIs(t, validator.ValidateOutputDirectory(path), ErrNotADirectory)
	})
}
