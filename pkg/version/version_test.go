package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo_DefaultsFromRuntime(t *testing.T) {
	info := GetInfo()

	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.OS+"/"+info.Arch)
	assert.NotEmpty(t, info.Version)
}

func TestGetInfo_ReflectsLinkerOverrides(t *testing.T) {
	saved := [3]string{Version, GitCommit, BuildTime}
	t.Cleanup(func() { Version, GitCommit, BuildTime = saved[0], saved[1], saved[2] })

	Version, GitCommit, BuildTime = "0.4.1", "9f3c2e1", "2026-10-01T12:00:00Z"

	info := GetInfo()
	assert.Equal(t, "Tint 0.4.1", info.Short())
	assert.Equal(t,
		"Tint 0.4.1 (commit: 9f3c2e1, built: 2026-10-01T12:00:00Z, go: "+runtime.Version()+", os/arch: "+runtime.GOOS+"/"+runtime.GOARCH+")",
		info.String())
}

func TestInfo_JSON(t *testing.T) {
	data, err := json.Marshal(Info{Version: "dev", GitCommit: "unknown", OS: "linux", Arch: "arm64"})
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "dev", fields["version"])
	assert.Equal(t, "unknown", fields["git_commit"])
	assert.Equal(t, "arm64", fields["arch"])
	assert.Contains(t, fields, "build_time")
	assert.Contains(t, fields, "go_version")
}
