package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathExisting(t *testing.T) {
	dir := t.TempDir()
	base, err := NewPathValidator(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testFile := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	resolved, err := base.ValidatePath("test.txt")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if filepath.Base(resolved) != "test.txt" {
		t.Fatalf("expected resolved path to end in test.txt, got %s", resolved)
	}
}

func TestValidatePathNonExistentNested(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, err := v.ValidatePath("subdir/nested/file.txt")
	if err != nil {
		t.Fatalf("expected success for non-existent nested path, got %v", err)
	}
	if filepath.Base(resolved) != "file.txt" {
		t.Fatalf("expected path ending in file.txt, got %s", resolved)
	}
}

func TestValidatePathTraversalBlocked(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = v.ValidatePath("../../../etc/passwd")
	if err == nil {
		t.Fatal("expected path traversal to be rejected")
	}
	pathErr, ok := err.(*PathError)
	if !ok {
		t.Fatalf("expected *PathError, got %T", err)
	}
	if pathErr.Kind != OutsideBaseDirectory && pathErr.Kind != SystemPathBlocked {
		t.Fatalf("expected OutsideBaseDirectory or SystemPathBlocked, got %v", pathErr.Kind)
	}
}

func TestIsSystemPathUnix(t *testing.T) {
	blocked := []string{"/etc/passwd", "/root/.bashrc", "/sys/kernel", "/proc/1/status", "/boot/grub", "/bin/ls", "/usr/bin"}
	for _, p := range blocked {
		if !IsSystemPath(p) {
			t.Errorf("expected %s to be blocked", p)
		}
	}
	allowed := []string{"/home/user/file", "/tmp/test"}
	for _, p := range allowed {
		if IsSystemPath(p) {
			t.Errorf("expected %s to be allowed", p)
		}
	}
}

func TestIsSystemPathWindows(t *testing.T) {
	blocked := []string{`C:\Windows\System32`, `C:\WINDOWS\system32`, `C:\Program Files\App`, `c:\program files (x86)\app`}
	for _, p := range blocked {
		if !IsSystemPath(p) {
			t.Errorf("expected %s to be blocked", p)
		}
	}
	if IsSystemPath(`D:\Data\file.txt`) {
		t.Error("expected D:\\Data\\file.txt to be allowed")
	}
}

func TestWhitelistSecureByDefault(t *testing.T) {
	w := NewWhitelist(nil)
	if w.IsAllowed(123456789) {
		t.Fatal("expected empty whitelist to reject all")
	}
	if !w.IsEmpty() {
		t.Fatal("expected whitelist to report empty")
	}
}

func TestWhitelistWildcardAllowsInvalidIDs(t *testing.T) {
	w := NewWhitelist([]int64{-1})
	if !w.IsAllowed(123) || !w.IsAllowed(-999) || !w.IsAllowed(0) {
		t.Fatal("expected wildcard to allow any id, including invalid ones")
	}
}

func TestWhitelistAddUserRejectsNonPositive(t *testing.T) {
	w := NewWhitelist(nil)
	if err := w.AddUser(0); err == nil {
		t.Fatal("expected AddUser(0) to fail")
	}
	if err := w.AddUser(-5); err == nil {
		t.Fatal("expected AddUser(-5) to fail")
	}
	if err := w.AddUser(42); err != nil {
		t.Fatalf("expected AddUser(42) to succeed, got %v", err)
	}
	if !w.IsAllowed(42) {
		t.Fatal("expected 42 to be allowed after AddUser")
	}
}

func TestCommandBlacklistMatchesBasenameCaseInsensitive(t *testing.T) {
	blocked := []string{"rm", "RM", "sudo", "Sudo", "/bin/rm", "/usr/bin/SUDO"}
	for _, c := range blocked {
		if IsCommandAllowed(c) {
			t.Errorf("expected %q to be blocked", c)
		}
	}
	allowed := []string{"ls", "cat", "echo", "/usr/bin/ls"}
	for _, c := range allowed {
		if !IsCommandAllowed(c) {
			t.Errorf("expected %q to be allowed", c)
		}
	}
}
