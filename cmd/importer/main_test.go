package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/otpmigrate/internal/config"
	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/atinyakov/otpmigrate/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testOptions(dir string) *config.Options {
	return &config.Options{
		Input:     "-",
		Output:    filepath.Join(dir, "accounts.json"),
		Alternate: "updated_accounts.json",
	}
}

func TestRun_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	stdin := strings.NewReader("otpauth://totp/MCB:Acme?secret=ABCDEF&issuer=MCB&digits=8\n\n   \nnot a url\n")

	require.NoError(t, run(context.Background(), opts, zap.NewNop(), stdin, &bytes.Buffer{}))

	doc, err := storage.Load(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{{Name: "MCB (Acme)", Secret: "ABCDEF", Digits: 8, Algorithm: "SHA1"}}, doc.Accounts)
}

func TestRun_CollisionUsesAlternate(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	require.NoError(t, os.WriteFile(opts.Output, []byte("original"), 0o600))

	core, logs := observer.New(zapcore.InfoLevel)
	opts.Texts = []string{"otpauth://totp/x?secret=ABC"}
	require.NoError(t, run(context.Background(), opts, zap.New(core), nil, &bytes.Buffer{}))

	got, err := os.ReadFile(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	doc, err := storage.Load(filepath.Join(dir, "updated_accounts.json"))
	require.NoError(t, err)
	require.Len(t, doc.Accounts, 1)
	assert.Equal(t, 1, logs.FilterMessage("output already exists").Len())
}

func TestRun_MalformedPayloadWritesNothing(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.Texts = []string{"otpauth-migration://offline?data=" + base64.RawURLEncoding.EncodeToString([]byte{0x0a, 0x40, 0x0a, 0x01})}

	require.NoError(t, run(context.Background(), opts, zap.NewNop(), nil, &bytes.Buffer{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no output may be written")
}

func TestRun_ExportVectorFromFile(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.Input = "../../internal/migration/testdata/export.txt"
	opts.Print = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, zap.NewNop(), nil, &out))

	n, err := storage.Check(opts.Output)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	assert.Equal(t, 9, strings.Count(out.String(), "---\n"))
	assert.Contains(t, out.String(), "Account: GitHub (Ericlein)\nSecret: (hidden)\nDigits: 6\nAlgorithm: SHA1\n")
	assert.NotContains(t, out.String(), "VDNNCAM5DCKZ2ZLO")
}

func TestRun_PrintSecrets(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Texts = []string{"otpauth://totp/x?secret=ABC"}
	opts.Print = true
	opts.ShowSecrets = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, zap.NewNop(), nil, &out))
	assert.Equal(t, "Account: x\nSecret: ABC\nDigits: 6\nAlgorithm: SHA1\n---\n", out.String())
}

func TestRun_MissingInput(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Input = filepath.Join(t.TempDir(), "missing.txt")

	err := run(context.Background(), opts, zap.NewNop(), nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	opts.Check = true

	assert.ErrorIs(t, run(context.Background(), opts, zap.NewNop(), nil, &bytes.Buffer{}), os.ErrNotExist)

	_, err := storage.Writer{Path: opts.Output}.Write(models.Document{Accounts: []models.Account{
		{Name: "a", Secret: "ABC", Digits: 6, Algorithm: "SHA1"},
	}})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	require.NoError(t, run(context.Background(), opts, zap.New(core), nil, &bytes.Buffer{}))
	entries := logs.FilterMessage("accounts document is valid").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["accounts"])

	require.NoError(t, os.WriteFile(opts.Output, []byte("[]"), 0o600))
	assert.Error(t, run(context.Background(), opts, zap.NewNop(), nil, &bytes.Buffer{}))
}

func TestReadTexts(t *testing.T) {
	long := "otpauth-migration://offline?data=" + strings.Repeat("A", 100_000)
	texts, err := readTexts("-", strings.NewReader("a\r\n\nb\n"+long+"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", long}, texts)
}
