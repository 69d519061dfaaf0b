package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-10-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var tests = []struct {
		name     string
		release  string
		info     *debug.BuildInfo
		ok       bool
		expected string
	}{
		{"no build info", "", nil, false, "dev"},
		{"ldflags wins", "1.2.0", info, true, "1.2.0 (revision 0123456789ab-dirty, built at 2026-10-01T10:00:00Z)"},
		{"module version", "", info, true, "v1.3.0 (revision 0123456789ab-dirty, built at 2026-10-01T10:00:00Z)"},
		{"devel without vcs", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true, "dev"},
		{"revision only", "1.0.0", &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}}, true, "1.0.0 (revision abc)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, describe(tc.release, tc.info, tc.ok))
		})
	}
}

func TestShortIgnoresRevision(t *testing.T) {
	original := Release
	Release = "9.9.9"

	defer func() {
		Release = original
	}()

	assert.Equal(t, "9.9.9", Short())
	assert.Contains(t, String(), "9.9.9")
}
