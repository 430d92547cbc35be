package pdfmerge

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfmerge/internal/fileutil"
	"github.com/alnah/go-pdfmerge/internal/process"
)

// Environment variables naming the office suite executable, in priority order.
const (
	EnvSofficePath     = "SOFFICE_PATH"
	EnvLibreOfficePath = "LIBREOFFICE_PATH"

	defaultOfficeBinary = "soffice"
)

// fallbackDocxName is used when the uploaded name does not end in .docx,
// since the office suite picks its import filter from the extension.
const fallbackDocxName = "input.docx"

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 5 * time.Second

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF")

// DefaultOfficePath returns the office executable from SOFFICE_PATH or
// LIBREOFFICE_PATH, defaulting to soffice resolved through PATH.
func DefaultOfficePath() string {
	for _, env := range []string{EnvSofficePath, EnvLibreOfficePath} {
		if p := strings.TrimSpace(os.Getenv(env)); p != "" {
			return p
		}
	}
	return defaultOfficeBinary
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The command runs in its own process group, killed as a whole when ctx ends.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- executable is operator configuration
	process.SetProcessGroup(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return stdout.String(), stderr.String(), err
}

// OfficeStrategy converts documents with a headless office suite (LibreOffice).
// Each conversion gets a private directory holding the input, the output and
// the suite's user profile, removed when the conversion returns.
type OfficeStrategy struct {
	Path    string        // executable name or path
	Runner  CommandRunner // nil uses ExecRunner
	TempDir string        // parent of the private directory ("" = os.TempDir())
	Timeout time.Duration // per conversion (0 = no limit beyond ctx)
}

// NewOfficeStrategy creates an OfficeStrategy with a real command runner.
func NewOfficeStrategy(path string, timeout time.Duration) *OfficeStrategy {
	if path == "" {
		path = DefaultOfficePath()
	}
	return &OfficeStrategy{Path: path, Runner: &ExecRunner{}, Timeout: timeout}
}

func (s *OfficeStrategy) Name() string { return "office" }

// Convert writes the document to disk, runs
// `soffice --headless --convert-to pdf --outdir <dir> <dir>/<name>.docx`
// and reads back <dir>/<name>.pdf.
func (s *OfficeStrategy) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	dir, cleanup, err := fileutil.MakeTempDir(s.TempDir, "pdfmerge-office-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOfficeExec, err)
	}
	defer cleanup()

	inputName := docxInputName(filename)
	inputPath, err := fileutil.WriteFileIn(dir, inputName, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOfficeExec, err)
	}

	outDir := filepath.Join(dir, "out")
	profileDir := filepath.Join(dir, "profile")
	for _, d := range []string{outDir, profileDir} {
		if err := os.Mkdir(d, 0o700); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOfficeExec, err)
		}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	runner := s.Runner
	if runner == nil {
		runner = &ExecRunner{}
	}

	_, stderr, err := runner.Run(ctx, s.Path,
		"-env:UserInstallation="+fileURL(profileDir),
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		inputPath,
	)
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return nil, fmt.Errorf("%w: %s: %v", ErrOfficeExec, msg, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrOfficeExec, err)
	}

	outputPath := filepath.Join(outDir, strings.TrimSuffix(inputName, filepath.Ext(inputName))+".pdf")
	pdf, err := os.ReadFile(outputPath) // #nosec G304 -- path inside our private temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOfficeOutput, err)
	}
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return nil, fmt.Errorf("%w: %s is not a PDF", ErrOfficeOutput, filepath.Base(outputPath))
	}
	return pdf, nil
}

// docxInputName keeps the uploaded base name when it ends in .docx.
func docxInputName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if strings.HasSuffix(strings.ToLower(base), ".docx") && len(base) > len(".docx") &&
		fileutil.ValidateName(base) == nil && !strings.HasPrefix(base, "-") {
		return base
	}
	return fallbackDocxName
}

// fileURL converts an absolute filesystem path to a file:// URL.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // Windows drive letter
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
