package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, Default.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "ledger.json")

	require.NoError(t, WriteFileAtomic(Default, path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(Default, path, []byte("two"), 0o644))

	data, err := ReadFile(Default, path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAtomic_Faults(t *testing.T) {
	tests := []struct {
		name  string
		fault Fault
	}{
		{"Write", Fault{FailAfterBytes: 1}},
		{"Sync", Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"Close", Fault{FailAfterBytes: -1, FailOnClose: true}},
		{"Rename", Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.json")
			require.NoError(t, WriteFileAtomic(Default, path, []byte("old"), 0o644))

			ffs := NewFaultyFS(nil)
			ffs.AddRule("ledger.json", tt.fault)

			err := WriteFileAtomic(ffs, path, []byte("new content"), 0o644)
			assert.ErrorIs(t, err, ErrInjected)

			data, err := ReadFile(Default, path)
			require.NoError(t, err)
			assert.Equal(t, "old", string(data))

			_, err = os.Stat(path + ".tmp")
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(Default, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
