package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "report.xlsx.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestLockUnlock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	if err := lock.Lock(context.Background()); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestTryLockHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(context.Background()); err != nil {
		t.Fatalf("Failed to acquire holder lock: %v", err)
	}
	defer holder.Unlock()

	contender := NewFileLock(lockPath)
	acquired, err := contender.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("TryLock should not acquire a held lock")
	}
}

func TestLockWaitsForRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(context.Background()); err != nil {
		t.Fatalf("Failed to acquire holder lock: %v", err)
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		holder.Unlock()
	}()

	contender := NewFileLock(lockPath)
	start := time.Now()
	if err := contender.Lock(context.Background()); err != nil {
		t.Fatalf("Lock should succeed after release: %v", err)
	}
	defer contender.Unlock()

	if wait := time.Since(start); wait < 90*time.Millisecond {
		t.Errorf("Expected to wait for the lock, waited only %v", wait)
	}
}

func TestLockContextCancelled(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := NewFileLock(lockPath)
	if err := holder.Lock(context.Background()); err != nil {
		t.Fatalf("Failed to acquire holder lock: %v", err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewFileLock(lockPath).Lock(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	content := []byte("workbook bytes")

	if err := AtomicWrite(path, content, 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Expected %q, got %q", content, got)
	}
}

func TestAtomicWriteOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := AtomicWrite(path, []byte("first run"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWrite(path, []byte("second run"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "second run" {
		t.Errorf("Expected second run content, got %q", got)
	}
}

func TestAtomicWritePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := AtomicWrite(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Expected permissions 0644, got %o", info.Mode().Perm())
	}
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")

	if err := AtomicWrite(path, []byte("data"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "report.xlsx" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only report.xlsx, found %v", names)
	}
}

func TestAtomicWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "2024", "report.xlsx")

	if err := AtomicWrite(path, []byte("data"), 0644); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}

func TestLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := LockAndWrite(context.Background(), path, []byte("content")); err != nil {
		t.Fatalf("LockAndWrite failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "content" {
		t.Errorf("Expected content, got %q", got)
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Errorf("Lock file should stay in place, stat err: %v", err)
	}
}

func TestLockAndWriteReusesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	ctx := context.Background()

	if err := LockAndWrite(ctx, path, []byte("first")); err != nil {
		t.Fatalf("first LockAndWrite failed: %v", err)
	}
	before, err := os.Stat(path + ".lock")
	if err != nil {
		t.Fatalf("stat lock file: %v", err)
	}

	if err := LockAndWrite(ctx, path, []byte("second")); err != nil {
		t.Fatalf("second LockAndWrite failed: %v", err)
	}
	after, err := os.Stat(path + ".lock")
	if err != nil {
		t.Fatalf("stat lock file: %v", err)
	}
	if !os.SameFile(before, after) {
		t.Error("Lock file was recreated between writes")
	}

	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("Expected second, got %q", got)
	}
}

func TestLockAndWriteCancelledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := LockAndWrite(ctx, path, []byte("content"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("No report should be written after cancellation")
	}
}

func TestLockAndWriteReadOnlyDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping permission test when running as root")
	}

	readOnly := filepath.Join(t.TempDir(), "readonly")
	if err := os.Mkdir(readOnly, 0555); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	defer os.Chmod(readOnly, 0755)

	path := filepath.Join(readOnly, "report.xlsx")
	if err := LockAndWrite(context.Background(), path, []byte("content")); err == nil {
		t.Fatal("Expected LockAndWrite to fail in a read-only directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("No partial report should exist")
	}
}

func TestConcurrentLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(id int) {
			defer wg.Done()
			if err := LockAndWrite(context.Background(), path, []byte(fmt.Sprintf("run-%d", id))); err != nil {
				t.Errorf("writer %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	var valid bool
	for i := 0; i < writers; i++ {
		if string(got) == fmt.Sprintf("run-%d", i) {
			valid = true
		}
	}
	if !valid {
		t.Errorf("File holds a torn write: %q", got)
	}
}
