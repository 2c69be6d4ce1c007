package fluidpath

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// matcher filters listing entries by a glob pattern.
// A pattern without "/" is matched against the entry name at any depth;
// a pattern with "/" is matched against the path relative to the listed root.
type matcher struct {
	g     glob.Glob
	byRel bool
	all   bool
}

func compilePattern(pattern string) (*matcher, error) {
	if pattern == "" || pattern == "*" || pattern == "**" {
		return &matcher{all: true}, nil
	}

	byRel := strings.Contains(pattern, "/")
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %v", ErrInvalidArgument, pattern, err)
	}

	return &matcher{g: g, byRel: byRel}, nil
}

func (m *matcher) match(name, rel string) bool {
	if m.all {
		return true
	}
	if m.byRel {
		return m.g.Match(rel)
	}
	return m.g.Match(name)
}
