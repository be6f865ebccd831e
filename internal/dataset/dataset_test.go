package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

func itemsOf(txs []itemset.Transaction) [][]string {
	out := make([][]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.Items())
	}
	return out
}

func TestRead(t *testing.T) {
	input := "T100, bread, milk\nT200,beer, diapers, bread\nT300\nT400,milk,milk\n"

	txs, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"bread", "milk"},
		{"beer", "bread", "diapers"},
		{},
		{"milk"},
	}, itemsOf(txs))
}

func TestRead_CustomDelimiter(t *testing.T) {
	txs, err := Read(strings.NewReader("1;a;b\n2;c\n"), WithComma(';'))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, itemsOf(txs))
}

func TestRead_ControlBytesStayInsideItems(t *testing.T) {
	txs, err := Read(strings.NewReader("t1,a\x1fb\nt2,a,b\n"))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1, txs[0].Len())
	assert.Equal(t, 2, txs[1].Len())
	assert.False(t, txs[0].Equal(txs[1]))
}

func TestRead_Empty(t *testing.T) {
	txs, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestRead_MalformedQuote(t *testing.T) {
	_, err := Read(strings.NewReader("1,\"unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read row 1")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store-out1.csv")
	if err := os.WriteFile(path, []byte("1,1,2,5\n2,2,4\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	txs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", "5"}, {"2", "4"}}, itemsOf(txs))
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")

	_, err := Load(path)
	require.Error(t, err)

	var accessErr *FileAccessError
	require.True(t, errors.As(err, &accessErr))
	assert.Equal(t, path, accessErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

func TestSample(t *testing.T) {
	txs := Sample()
	require.Len(t, txs, 9)
	assert.Equal(t, []string{"1", "2", "5"}, txs[0].Items())
	assert.Equal(t, []string{"1", "2", "3"}, txs[8].Items())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"a.csv",
		"nested/b.csv",
		"nested/deeper/c.CSV",
		"notes.txt",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte("1,a\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	t.Run("recursive", func(t *testing.T) {
		got, err := Discover(filepath.Join(dir, "**", "*"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.csv"),
			filepath.Join(dir, "nested", "b.csv"),
			filepath.Join(dir, "nested", "deeper", "c.CSV"),
		}, got)
	})

	t.Run("single level", func(t *testing.T) {
		got, err := Discover(filepath.Join(dir, "*.csv"))
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.csv")}, got)
	})

	t.Run("plain path", func(t *testing.T) {
		got, err := Discover(filepath.Join(dir, "a.csv"))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no match", func(t *testing.T) {
		got, err := Discover(filepath.Join(dir, "missing", "*.csv"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"/data/groceries-out1.csv": "groceries",
		"/data/groceries.csv":      "groceries",
		"retail.CSV":               "retail",
		"plain":                    "plain",
	}
	for path, want := range tests {
		assert.Equal(t, want, Name(path), path)
	}
}

func TestWebPath(t *testing.T) {
	got, err := WebPath("datasets", "groceries")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("datasets", "groceries-out1.csv"), got)

	for _, bad := range []string{"", ".", "..", "../etc/passwd", `a\b`, "a/b"} {
		_, err := WebPath("datasets", bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}
