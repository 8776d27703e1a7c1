package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootstrap-machine/internal/platform"
)

func TestPipMirrorStepDisabledByDefault(t *testing.T) {
	ctx, _ := newTestContext(t, platform.Linux)

	res := (&pipMirrorStep{}).Run(ctx)
	assert.Equal(t, StatusSkipped, res.Status)

	_, err := os.Stat(filepath.Join(ctx.Env.Home, ".pip"))
	assert.True(t, os.IsNotExist(err), "no files written while disabled")
}

func TestPipMirrorStepWritesConfig(t *testing.T) {
	ctx, _ := newTestContext(t, platform.Linux)
	ctx.Config.PipMirror = true

	res := (&pipMirrorStep{}).Run(ctx)
	require.Equal(t, StatusOK, res.Status, "err: %v", res.Err)

	confPath := filepath.Join(ctx.Env.Home, ".pip", "pip.conf")
	raw, err := os.ReadFile(confPath)
	require.NoError(t, err)

	want := "[global]\n" +
		"index-url = https://pypi.tuna.tsinghua.edu.cn/simple\n" +
		"trusted-host = pypi.tuna.tsinghua.edu.cn\n"
	assert.Equal(t, want, string(raw))

	// Overwrite-safe: a second run produces identical bytes.
	require.Equal(t, StatusOK, (&pipMirrorStep{}).Run(ctx).Status)
	again, err := os.ReadFile(confPath)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestPipMirrorStepRepairsPermissions(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are meaningless as root")
	}

	ctx, _ := newTestContext(t, platform.Linux)
	ctx.Config.PipMirror = true

	dir := filepath.Join(ctx.Env.Home, ".pip")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	res := (&pipMirrorStep{}).Run(ctx)
	require.Equal(t, StatusOK, res.Status, "err: %v", res.Err)

	_, err := os.Stat(filepath.Join(dir, "pip.conf"))
	assert.NoError(t, err)
}
