package version

import (
	"fmt"
	"runtime/debug"
)

// Release is set at link time with
// -ldflags "-X github.com/kxue43/inikit/version.Release=1.2.0".
var Release = ""

// String is what --version prints: the release plus the VCS revision the
// binary was built from, when the toolchain recorded one.
func String() string {
	info, ok := debug.ReadBuildInfo()

	return describe(Release, info, ok)
}

// Short is the bare release, for the welcome line.
func Short() string {
	info, ok := debug.ReadBuildInfo()

	return release(Release, info, ok)
}

func release(r string, info *debug.BuildInfo, ok bool) string {
	if r != "" {
		return r
	}

	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}

func describe(r string, info *debug.BuildInfo, ok bool) string {
	v := release(r, info, ok)

	if !ok {
		return v
	}

	var revision, ts string

	modified := false

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			ts = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if revision == "" {
		return v
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}

	if modified {
		revision += "-dirty"
	}

	if ts == "" {
		return fmt.Sprintf("%s (revision %s)", v, revision)
	}

	return fmt.Sprintf("%s (revision %s, built at %s)", v, revision, ts)
}
