package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harrison/diskreport/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver returns owners from a map keyed by base name.
type mapResolver struct {
	owners map[string]string
}

func (m mapResolver) Owner(path string) (string, error) {
	if owner, ok := m.owners[filepath.Base(path)]; ok {
		return owner, nil
	}
	return "", errors.New("no owner")
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.odb", 500)
	mtime := time.Date(2024, 5, 1, 9, 30, 45, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	e := NewExtractor(mapResolver{owners: map[string]string{"a.odb": "alice"}}, 1)
	rec := e.Extract(path)

	assert.Equal(t, "a.odb", rec.Name)
	assert.Equal(t, "alice", rec.Owner)
	assert.Equal(t, models.KnownSize(500), rec.Size)
	assert.Equal(t, path, rec.Path)
	assert.True(t, rec.ModifiedAt.Known)
	assert.Equal(t, "05/01/2024 09:30", rec.ModifiedAt.String())
	assert.False(t, rec.Degraded())
}

func TestExtractOwnerFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "b.odb", 1)

	rec := NewExtractor(mapResolver{}, 1).Extract(path)

	assert.Equal(t, models.OwnerUnavailable, rec.Owner)
	assert.True(t, rec.Size.IsKnown())
}

// A file deleted after discovery keeps a record with the not-found marker.
func TestExtractDeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gone.odb", 10)
	require.NoError(t, os.Remove(path))

	var degraded []models.FileRecord
	e := NewExtractor(mapResolver{}, 1)
	e.OnDegraded = func(r models.FileRecord) { degraded = append(degraded, r) }

	rec := e.Extract(path)

	assert.Equal(t, models.SizeNotFound, rec.Size.Kind)
	assert.Equal(t, "file not found: "+path, rec.Size.String())
	assert.False(t, rec.ModifiedAt.Known)
	assert.Equal(t, "NAN", rec.ModifiedAt.String())
	assert.Equal(t, models.OwnerUnavailable, rec.Owner)
	assert.Len(t, degraded, 1)
}

func TestExtractStatFailure(t *testing.T) {
	e := NewExtractor(UnknownResolver{}, 1)
	e.stat = func(string) (fs.FileInfo, error) {
		return nil, fs.ErrPermission
	}

	rec := e.Extract("/restricted/c.odb")

	assert.Equal(t, models.SizeUnavailable, rec.Size.Kind)
	assert.Equal(t, "N/A", rec.Size.String())
	assert.Equal(t, "NAN", rec.ModifiedAt.String())
	assert.Equal(t, models.OwnerUnknown, rec.Owner)
}

func TestCleanPathDropsInvalidBytes(t *testing.T) {
	assert.Equal(t, "/data/caf.odb", CleanPath("/data/caf\xe9.odb"))
	assert.Equal(t, "/data/café.odb", CleanPath("/data/café.odb"))
	assert.Equal(t, "/data/x.odb", CleanPath("/data/\xff\xfex.odb"))
}

func TestExtractAllPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	owners := map[string]string{}
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("f%02d.odb", i)
		paths = append(paths, writeFile(t, dir, name, i))
		owners[name] = fmt.Sprintf("user%d", i%3)
	}
	// duplicates from overlapping patterns stay duplicated
	paths = append(paths, paths[0])

	e := NewExtractor(mapResolver{owners: owners}, 8)
	records, err := e.ExtractAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, records, len(paths))

	for i, rec := range records {
		assert.Equal(t, paths[i], rec.Path, "slot %d", i)
	}
	assert.Equal(t, records[0], records[len(records)-1])
}

func TestExtractAllEmpty(t *testing.T) {
	records, err := NewExtractor(UnknownResolver{}, 4).ExtractAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// blockingResolver parks every lookup until released.
type blockingResolver struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingResolver) Owner(string) (string, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return "x", nil
}

func TestExtractAllCancelled(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("f%d.odb", i), 1))
	}

	resolver := &blockingResolver{started: make(chan struct{}), release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := NewExtractor(resolver, 1).ExtractAll(ctx, paths)
		done <- err
	}()

	<-resolver.started
	cancel()
	close(resolver.release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("ExtractAll did not return after cancellation")
	}
}

func TestNewOwnerResolver(t *testing.T) {
	for _, kind := range []string{"", "native", "NATIVE", "shell", "unknown"} {
		r, err := NewOwnerResolver(kind)
		require.NoError(t, err, "kind %q", kind)
		assert.NotNil(t, r)
	}

	_, err := NewOwnerResolver("ldap")
	assert.True(t, models.IsConfigError(err))
}

func TestUnknownResolver(t *testing.T) {
	owner, err := UnknownResolver{}.Owner("/any")
	require.NoError(t, err)
	assert.Equal(t, "unknown", owner)
}

func TestShellResolverMissingCommand(t *testing.T) {
	r := &ShellResolver{Command: "definitely-not-a-real-stat-binary"}
	_, err := r.Owner("/tmp")
	assert.Error(t, err)
}
