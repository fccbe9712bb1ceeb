//go:build basic || database

package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	// sharedBirkinPath holds the path to a shared birkin binary built once for all tests.
	sharedBirkinPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// pricingBody is what the fake pricing endpoint serves.
const pricingBody = `{"success":true,"data":{"Birkin 25":{"Palladium":{"Precious Skin":[
	{"year":2020,"price":10000},
	{"year":2021,"month":"June","price":12000},
	{"year":2024,"price":15000}
]}}}}`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBirkinBinary returns the path to the birkin binary, building it once if needed.
func getBirkinBinary() string {
	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "birkin-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		birkinPath := filepath.Join(tempDir, "birkin")
		buildCmd := exec.Command("go", "build", "-o", birkinPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build birkin: %v\n%s", err, out))
		}

		sharedBirkinPath = birkinPath
	})

	return sharedBirkinPath
}

// pricingServer serves pricingBody and counts requests.
func pricingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pricingBody))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

// runBirkin runs the binary with an isolated HOME and returns its stdout.
func runBirkin(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBirkinBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home, "BIRKIN_HIT_DELAY=0s", "BIRKIN_COLOR=no")
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), output, stderr)
	}
	return string(output), err
}
