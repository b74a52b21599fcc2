// Package main is the otpimport command. It reads decoded QR texts
// (otpauth:// and otpauth-migration:// URLs, one per line), normalizes the
// accounts they carry, and writes them to an accounts document without
// ever overwriting an existing one.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/otpmigrate/internal/config"
	"github.com/atinyakov/otpmigrate/internal/logger"
	"github.com/atinyakov/otpmigrate/internal/models"
	"github.com/atinyakov/otpmigrate/internal/service"
	"github.com/atinyakov/otpmigrate/internal/storage"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// maxLine bounds one decoded text; migration URLs run to a few kilobytes.
const maxLine = 1 << 20

func main() {
	options := config.Parse()
	if options.Version {
		fmt.Printf("otpimport\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	log.Encoding = "console"
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()

	if err := run(context.Background(), options, log.Log, os.Stdin, os.Stdout); err != nil {
		log.Log.Fatal("import failed", zap.Error(err))
	}
}

// run executes one invocation. Finding no accounts is reported but is not
// an error.
func run(ctx context.Context, opts *config.Options, log *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	if opts.Check {
		return check(opts.Output, log)
	}

	texts := opts.Texts
	if len(texts) == 0 {
		var err error
		if texts, err = readTexts(opts.Input, stdin); err != nil {
			return err
		}
	}
	log.Info("decoding texts", zap.Int("count", len(texts)))

	rep, err := service.NewImporter(log).Import(ctx, texts)
	if errors.Is(err, models.ErrNoAccountsFound) {
		log.Warn("nothing to write", zap.Error(err))
		return nil
	} else if err != nil {
		return err
	}
	if failed := rep.Failed(); len(failed) != 0 {
		log.Warn("some texts were skipped", zap.Int("failed", len(failed)), zap.Error(rep.Err()))
	}

	if opts.Print {
		printAccounts(stdout, rep.Accounts, opts.ShowSecrets)
	}

	res, err := storage.Writer{Path: opts.Output, Alternate: opts.Alternate}.Write(rep.Document())
	if err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	if res.Substituted {
		log.Warn("output already exists", zap.Error(res.Collision))
	}
	log.Info("created accounts document", zap.String("path", res.Path), zap.Int("accounts", len(rep.Accounts)))
	return nil
}

func check(path string, log *zap.Logger) error {
	n, err := storage.Check(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("accounts document not found", zap.String("path", path))
		return err
	} else if err != nil {
		log.Error("accounts document is invalid", zap.String("path", path), zap.Error(err))
		return err
	}
	log.Info("accounts document is valid", zap.String("path", path), zap.Int("accounts", n))
	return nil
}

// readTexts reads one decoded text per non-blank line from path, or from
// stdin when path is "-" or empty.
func readTexts(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if line := sc.Text(); strings.TrimSpace(line) != "" {
			texts = append(texts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return texts, nil
}

func printAccounts(w io.Writer, accs []models.Account, showSecrets bool) {
	for _, a := range accs {
		secret := "(hidden)"
		if showSecrets {
			secret = a.Secret
		}
		fmt.Fprintf(w, "Account: %s\nSecret: %s\nDigits: %d\nAlgorithm: %s\n---\n", a.Name, secret, a.Digits, a.Algorithm)
	}
}
