// ABOUTME: Note vault collaborator: hierarchical markdown file storage for saved items
// ABOUTME: DirVault is the filesystem implementation; the interface keeps the core portable

package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Vault is the note storage capability: create, read, delete, and rename
// files in a hierarchical vault. Paths are vault-relative, slash-separated.
type Vault interface {
	Create(path, content string) error
	Read(path string) (string, error)
	Delete(path string) error
	Rename(oldPath, newPath string) error
	Exists(path string) bool
}

// DirVault stores notes under a root directory on the local filesystem.
type DirVault struct {
	root string
}

// NewDirVault creates a vault rooted at dir.
func NewDirVault(dir string) *DirVault {
	return &DirVault{root: dir}
}

// Root returns the vault's root directory.
func (v *DirVault) Root() string {
	return v.root
}

func (v *DirVault) abs(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("path escapes vault: %s", path)
	}
	return filepath.Join(v.root, cleaned), nil
}

// Create writes a note, creating parent folders as needed.
func (v *DirVault) Create(path, content string) error {
	target, err := v.abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create vault folder: %w", err)
	}
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}

// Read returns a note's content.
func (v *DirVault) Read(path string) (string, error) {
	target, err := v.abs(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	return string(data), nil
}

// Delete removes a note.
func (v *DirVault) Delete(path string) error {
	target, err := v.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// Rename moves a note, creating the destination folder as needed.
func (v *DirVault) Rename(oldPath, newPath string) error {
	from, err := v.abs(oldPath)
	if err != nil {
		return err
	}
	to, err := v.abs(newPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return fmt.Errorf("failed to create vault folder: %w", err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to rename note: %w", err)
	}
	return nil
}

// Exists reports whether a note is present.
func (v *DirVault) Exists(path string) bool {
	target, err := v.abs(path)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(target)
	return statErr == nil
}
