// Package testutil provides the shared harness for integration tests: it
// materializes profile files into a temp directory, runs the app against
// them, and captures the log output for assertions.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/phasegrid/internal/app"
	"github.com/vk/phasegrid/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest writes the given profile files into a temp directory,
// builds an app over them with debug logging, and runs the restoration.
// Load failures are reported through HarnessResult.Err like run failures.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	logBuf := &SafeBuffer{}
	appConfig := &app.Config{
		ProfilePath: tmpDir,
		LogFormat:   "text",
		LogLevel:    "debug",
	}

	testApp, err := app.NewApp(logBuf, appConfig, hcl.NewLoader())
	if err != nil {
		return &HarnessResult{LogOutput: logBuf.String(), Err: err}
	}

	runErr := testApp.Run(context.Background())
	return &HarnessResult{
		LogOutput: logBuf.String(),
		Err:       runErr,
		App:       testApp,
	}
}
