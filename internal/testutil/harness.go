// Package testutil provides helpers for building fake install trees and
// running the app end to end in tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spotstack/launchgo/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
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

// InstallTree is a temporary install prefix laid out the ament way:
// share/<pkg> for data, lib/<pkg> for executables.
type InstallTree struct {
	Prefix string
}

// NewInstallTree creates an empty install tree under a test temp dir.
func NewInstallTree(t *testing.T) *InstallTree {
	t.Helper()
	return &InstallTree{Prefix: t.TempDir()}
}

// WriteShare writes a file under share/<pkg>/<rel> and returns its path.
func (it *InstallTree) WriteShare(t *testing.T, pkg, rel, content string) string {
	t.Helper()
	path := filepath.Join(it.Prefix, "share", pkg, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteExecutable writes a script under lib/<pkg>/<name> with the exec bit
// set and returns its path.
func (it *InstallTree) WriteExecutable(t *testing.T, pkg, name, script string) string {
	t.Helper()
	path := filepath.Join(it.Prefix, "lib", pkg, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// WriteSpotPackages materializes minimal spot_description and spot_driver
// packages: the robot description template plus the image publishers launch
// file the driver description includes.
func (it *InstallTree) WriteSpotPackages(t *testing.T) {
	t.Helper()
	it.WriteShare(t, "spot_description", "urdf/spot.urdf.xacro", SpotTemplate)
	it.WriteShare(t, "spot_description", "urdf/materials.xacro", SpotMaterials)
	it.WriteShare(t, "spot_driver", "launch/spot_image_publishers.launch.hcl", ImagePublishersLaunch)
}

// RunResult holds the outcomes of an end-to-end app run.
type RunResult struct {
	Output string
	Err    error
}

// RunApp builds an app against the given install tree and runs it in
// dry-run mode, capturing output.
func RunApp(t *testing.T, tree *InstallTree, description string, overrides map[string]string) *RunResult {
	t.Helper()

	cfg, err := app.NewConfig(app.Config{
		Description: description,
		Overrides:   overrides,
		PrefixPaths: []string{tree.Prefix},
		LogFormat:   "text",
		LogLevel:    "warn",
		DryRun:      true,
	})
	require.NoError(t, err)

	out := &SafeBuffer{}
	runErr := app.NewApp(out, cfg).Run(context.Background())
	return &RunResult{Output: out.String(), Err: runErr}
}
