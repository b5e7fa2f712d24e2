package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/diskreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantErr  bool
		wantLine int
	}{
		{name: "single pattern", lines: []string{"*.odb"}},
		{name: "multiple patterns", lines: []string{"*.odb", "*.bof", "*.pdf"}},
		{name: "surrounding whitespace trimmed", lines: []string{"  *.odb \t"}},
		{name: "multi-part extension", lines: []string{"*.tar.gz"}},
		{name: "empty list", lines: nil, wantErr: true},
		{name: "missing star", lines: []string{".odb"}, wantErr: true, wantLine: 1},
		{name: "missing dot", lines: []string{"*odb"}, wantErr: true, wantLine: 1},
		{name: "bare extension", lines: []string{"odb"}, wantErr: true, wantLine: 1},
		{name: "empty extension", lines: []string{"*."}, wantErr: true, wantLine: 1},
		{name: "blank line", lines: []string{"*.odb", ""}, wantErr: true, wantLine: 2},
		{name: "one bad element rejects all", lines: []string{"*.odb", "*.bof", "pdf"}, wantErr: true, wantLine: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Validate(tt.lines)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, len(tt.lines), set.Len())
				return
			}

			require.Error(t, err)
			assert.Nil(t, set)
			var cfgErr *models.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantLine, cfgErr.Line)
		})
	}
}

// Every accepted list consists solely of "*."-prefixed elements, and any
// non-conforming element rejects the whole list.
func TestValidateAcceptsIffAllPrefixed(t *testing.T) {
	candidates := []string{"*.odb", "*.bof", "odb", "*odb", ".pdf", "*.xlsx", "x.*", "*.*"}

	for mask := 1; mask < 1<<len(candidates); mask++ {
		var lines []string
		allValid := true
		for i, c := range candidates {
			if mask&(1<<i) == 0 {
				continue
			}
			lines = append(lines, c)
			if len(c) < 3 || c[:2] != "*." {
				allValid = false
			}
		}

		_, err := Validate(lines)
		if allValid {
			assert.NoError(t, err, "lines %v", lines)
		} else {
			assert.Error(t, err, "lines %v", lines)
		}
	}
}

func TestMatches(t *testing.T) {
	set, err := Validate([]string{"*.odb", "*.ODB", "*.gz", "*.tar.gz"})
	require.NoError(t, err)

	assert.Equal(t, []string{"*.odb"}, set.Matches("model.odb"))
	assert.Equal(t, []string{"*.ODB"}, set.Matches("MODEL.ODB"))
	assert.Equal(t, []string{"*.gz", "*.tar.gz"}, set.Matches("backup.tar.gz"))
	assert.Empty(t, set.Matches("model.odbx"))
	assert.Empty(t, set.Matches("odb"))
}

func TestExtensionList(t *testing.T) {
	set, err := Validate([]string{"*.odb", "*.bof"})
	require.NoError(t, err)

	assert.Equal(t, ".odb,.bof", set.ExtensionList())
}

func TestPatternsReturnsCopy(t *testing.T) {
	set, err := Validate([]string{"*.odb"})
	require.NoError(t, err)

	got := set.Patterns()
	got[0] = "*.mutated"
	assert.Equal(t, []string{"*.odb"}, set.Patterns())
}

func TestSuffixes(t *testing.T) {
	set, err := Validate([]string{" *.odb ", "*.tar.gz"})
	require.NoError(t, err)

	assert.Equal(t, []string{".odb", ".tar.gz"}, set.Suffixes())
	set.Suffixes()[0] = ".x"
	assert.Equal(t, ".odb", set.Suffixes()[0])
}

func TestOverlaps(t *testing.T) {
	set, err := Validate([]string{"*.gz", "*.tar.gz", "*.odb", "*.odb"})
	require.NoError(t, err)

	overlaps := set.Overlaps()
	assert.Contains(t, overlaps, Overlap{Pattern: "*.gz", Covers: "*.tar.gz"})
	assert.Contains(t, overlaps, Overlap{Pattern: "*.odb", Covers: "*.odb"})
	assert.Len(t, overlaps, 2)

	clean, err := Validate([]string{"*.odb", "*.bof"})
	require.NoError(t, err)
	assert.Empty(t, clean.Overlaps())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(dir, "extensions.txt")
		require.NoError(t, os.WriteFile(path, []byte("*.odb\n*.bof\n"), 0644))

		set, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"*.odb", "*.bof"}, set.Patterns())
	})

	t.Run("crlf line endings", func(t *testing.T) {
		path := filepath.Join(dir, "crlf.txt")
		require.NoError(t, os.WriteFile(path, []byte("*.odb\r\n*.bof\r\n"), 0644))

		set, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"*.odb", "*.bof"}, set.Patterns())
	})

	t.Run("malformed line", func(t *testing.T) {
		path := filepath.Join(dir, "bad.txt")
		require.NoError(t, os.WriteFile(path, []byte("*.odb\npdf\n"), 0644))

		_, err := LoadFile(path)
		var cfgErr *models.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, 2, cfgErr.Line)
		assert.Equal(t, "pdf", cfgErr.Value)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.txt"))
		var cfgErr *models.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "file not found", cfgErr.Reason)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		_, err := LoadFile(path)
		assert.True(t, models.IsConfigError(err))
	})
}
