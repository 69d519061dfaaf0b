// Package validate checks a resolved selection against the compatibility
// rules of the tool registry. It never corrects a selection.
package validate

import (
	"fmt"

	"github.com/kxue43/inikit/registry"
	"github.com/kxue43/inikit/resolve"
)

type (
	Violation struct {
		Tool   string
		Reason string
	}
)

func (v Violation) Error() string {
	return fmt.Sprintf("%s %s", v.Tool, v.Reason)
}

// Validate reports one violation per failed check, in selection order.
// An empty result means the selection is valid.
func Validate(reg *registry.Registry, sel resolve.Selection) []Violation {
	var violations []Violation

	for _, id := range sel.Tools {
		td, ok := reg.Lookup(id)
		if !ok || td.ID != id {
			violations = append(violations, Violation{Tool: id, Reason: "is not a registered tool"})

			continue
		}

		if !td.SupportsLanguage(sel.Language) {
			violations = append(violations, Violation{Tool: id, Reason: "requires " + languages(td.Languages)})
		}

		if !td.SupportsFramework(sel.Framework) {
			violations = append(violations, Violation{Tool: id, Reason: "requires " + frameworks(td.Frameworks)})
		}
	}

	return violations
}

func languages(ls []registry.Language) string {
	out := ""

	for i, l := range ls {
		if i > 0 {
			out += " or "
		}

		out += l.Label()
	}

	return out
}

func frameworks(fs []registry.Framework) string {
	out := ""

	for i, f := range fs {
		if i > 0 {
			out += " or "
		}

		out += f.Label()
	}

	return out
}
