// Package storage writes and reads the accounts document consumed by the
// tray application. Existing files are never overwritten: when the
// canonical path is taken the document goes to an alternate name next to
// it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atinyakov/otpmigrate/internal/models"
)

const (
	// DefaultFile is the canonical document name.
	DefaultFile = "accounts.json"
	// AlternateFile is written instead when DefaultFile exists.
	AlternateFile = "updated_accounts.json"
)

// maxAttempts bounds the numbered alternates tried before giving up.
const maxAttempts = 1000

// Writer places documents on disk.
type Writer struct {
	// Path is the canonical output path. Empty means DefaultFile in the
	// working directory.
	Path string
	// Alternate is the file name used in Path's directory when Path is
	// occupied. Empty means AlternateFile.
	Alternate string
}

// Result describes where a document was written.
type Result struct {
	Path string
	// Substituted is true when Path differs from the canonical path.
	Substituted bool
	// Collision explains the substitution and wraps
	// models.ErrOutputCollision; it is nil when no substitution happened.
	Collision error
}

// Write stores doc at the first free candidate path: the canonical path,
// then the alternate name, then "<alternate>-N<ext>" for N = 1, 2, ...
// Files are created exclusively, so an existing file is never truncated.
func (w Writer) Write(doc models.Document) (Result, error) {
	if doc.Accounts == nil {
		doc.Accounts = []models.Account{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode accounts: %w", err)
	}
	data = append(data, '\n')

	canonical := w.canonical()
	if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	for i, path := range w.candidates() {
		err := writeExclusive(path, data)
		if errors.Is(err, fs.ErrExist) {
			continue
		} else if err != nil {
			return Result{}, err
		}
		res := Result{Path: path}
		if i > 0 {
			res.Substituted = true
			res.Collision = fmt.Errorf("%w: %s exists, wrote %s", models.ErrOutputCollision, canonical, path)
		}
		return res, nil
	}
	return Result{}, fmt.Errorf("%w: no free file name next to %s", models.ErrOutputCollision, canonical)
}

func (w Writer) canonical() string {
	if w.Path == "" {
		return DefaultFile
	}
	return w.Path
}

func (w Writer) candidates() []string {
	canonical := w.canonical()
	alt := w.Alternate
	if alt == "" {
		alt = AlternateFile
	}
	alt = filepath.Join(filepath.Dir(canonical), alt)
	ext := filepath.Ext(alt)
	stem := strings.TrimSuffix(alt, ext)

	out := []string{canonical, alt}
	for n := 1; n < maxAttempts; n++ {
		out = append(out, stem+"-"+strconv.Itoa(n)+ext)
	}
	return out
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Load reads the document at path. A missing file reports an error
// matching fs.ErrNotExist.
func Load(path string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc models.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}
