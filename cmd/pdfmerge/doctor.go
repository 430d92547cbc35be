package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/fileutil"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Office   officeInfo `json:"office"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// officeInfo holds office suite detection results.
type officeInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
}

// doctorProbes are the lookups doctor performs, injectable for tests.
type doctorProbes struct {
	lookOffice func(name string) (string, error)
	lookChrome func() (string, bool)
	version    func(path string) (string, error)
	officeName string
	tempDir    string
	browserBin string
	noSandbox  string
	getenv     func(string) string
	fileExists func(string) bool
}

// defaultProbes inspect the real system.
func defaultProbes() doctorProbes {
	env := loadEnvConfig()
	return doctorProbes{
		lookOffice: exec.LookPath,
		lookChrome: launcher.LookPath,
		version:    chromeVersion,
		officeName: firstNonEmpty(env.OfficePath, pdfmerge.DefaultOfficePath()),
		tempDir:    firstNonEmpty(env.TempDir, os.TempDir()),
		browserBin: os.Getenv("ROD_BROWSER_BIN"),
		noSandbox:  os.Getenv("ROD_NO_SANDBOX"),
		getenv:     os.Getenv,
		fileExists: fileutil.FileExists,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(defaultProbes())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(p doctorProbes) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  p.noSandbox,
			BrowserBin: p.browserBin,
		},
	}

	checkOffice(result, p)
	checkChrome(result, p)
	checkEnvironment(result, p)
	checkSystem(result, p)

	// Word documents need at least one converter.
	if !result.Office.Found && !result.Chrome.Found {
		result.Errors = append(result.Errors,
			"No word document converter available: install LibreOffice or Chrome")
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkOffice locates the office suite executable.
func checkOffice(result *doctorResult, p doctorProbes) {
	path, err := p.lookOffice(p.officeName)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Office suite %q not found; word documents will use the browser. Set SOFFICE_PATH or PDFMERGE_OFFICE_PATH", p.officeName))
		return
	}
	result.Office.Found = true
	result.Office.Path = path
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult, p doctorProbes) {
	chromePath := p.browserBin
	if chromePath == "" {
		var found bool
		chromePath, found = p.lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; the browser fallback is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if !p.fileExists(chromePath) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	if v, err := p.version(chromePath); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = p.noSandbox != "1"
}

// chromeVersion runs chrome --version.
func chromeVersion(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path comes from launcher lookup or operator env
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, p doctorProbes) {
	result.Env.Container, result.Env.ContainerHint = isContainer(p)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if p.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && p.noSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(p doctorProbes) (bool, string) {
	if p.getenv("PDFMERGE_CONTAINER") == "1" {
		return true, "PDFMERGE_CONTAINER=1"
	}
	if p.fileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := p.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if p.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the scratch directory is writable.
func checkSystem(result *doctorResult, p doctorProbes) {
	result.System.TempDir = p.tempDir

	dir, cleanup, err := fileutil.MakeTempDir(p.tempDir, "pdfmerge-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", p.tempDir))
		return
	}
	defer cleanup()

	if _, err := fileutil.WriteFileIn(dir, "probe.pdf", []byte("%PDF")); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", p.tempDir))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfmerge doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Office suite")
	if r.Office.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Office.Path)
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s (writable)\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s (not writable)\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to merge")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
