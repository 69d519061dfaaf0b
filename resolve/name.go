package resolve

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const DefaultProjectName = "my-app"

var (
	projectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	errNameSpaces    = errors.New("project name cannot contain spaces")
	errNameLowercase = errors.New("project name must be lowercase")
	errNameDotSlash  = errors.New(`project name cannot start with "./"`)
	errNameCharset   = errors.New("project name can only contain letters, numbers, dashes, and underscores")
)

// IsDefaultSentinel reports whether name means "use the default name".
func IsDefaultSentinel(name string) bool {
	return name == "" || name == "." || name == "./"
}

// ValidateProjectName never rewrites its input; callers substitute
// [DefaultProjectName] for the sentinels themselves.
func ValidateProjectName(name string) error {
	if IsDefaultSentinel(name) {
		return nil
	}

	if strings.ContainsFunc(name, unicode.IsSpace) {
		return errNameSpaces
	}

	if strings.ToLower(name) != name {
		return errNameLowercase
	}

	if strings.HasPrefix(name, "./") {
		return errNameDotSlash
	}

	if !projectNameRegex.MatchString(name) {
		return errNameCharset
	}

	return nil
}

func normalizeProjectName(name string) string {
	if IsDefaultSentinel(name) {
		return DefaultProjectName
	}

	return name
}
