package fileproc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmehta/codescope/pkg/parser"
)

func writeJava(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("class "+name[:len(name)-5]+" {}"), 0o644))
	return path
}

func TestMapFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeJava(t, dir, "A.java"),
		writeJava(t, dir, "B.java"),
		writeJava(t, dir, "C.java"),
	}

	results, errs := MapFiles(files, func(p *parser.Parser, path string) (string, error) {
		res, err := p.ParseFile(path)
		if err != nil {
			return "", err
		}
		defer res.Tree.Close()
		return filepath.Base(path), nil
	})

	assert.False(t, errs.HasErrors())
	sort.Strings(results)
	assert.Equal(t, []string{"A.java", "B.java", "C.java"}, results)
}

func TestMapFilesCollectsErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeJava(t, dir, "A.java")
	bad := filepath.Join(dir, "missing.java")

	results, errs := MapFiles([]string{good, bad}, func(p *parser.Parser, path string) (string, error) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	})

	assert.Len(t, results, 1)
	require.True(t, errs.HasErrors())
	assert.Equal(t, bad, errs.Errors[0].Path)
}

func TestMapFilesWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	files := []string{writeJava(t, dir, "A.java"), writeJava(t, dir, "B.java")}

	results, errs := MapFilesWithContext(ctx, files, func(p *parser.Parser, path string) (string, error) {
		return path, nil
	}, nil)

	assert.Empty(t, results)
	require.True(t, errs.HasErrors())
	assert.True(t, errors.Is(errs.Errors[0].Err, context.Canceled))
}

func TestMapFilesProgress(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeJava(t, dir, "A.java"), writeJava(t, dir, "B.java")}

	var done atomic.Int32
	_, errs := MapFilesWithContext(context.Background(), files, func(p *parser.Parser, path string) (struct{}, error) {
		return struct{}{}, nil
	}, func() { done.Add(1) })

	assert.False(t, errs.HasErrors())
	assert.Equal(t, int32(2), done.Load())
}

func TestMapFilesEmpty(t *testing.T) {
	results, errs := MapFiles(nil, func(p *parser.Parser, path string) (int, error) { return 0, nil })
	assert.Nil(t, results)
	assert.False(t, errs.HasErrors())
}
