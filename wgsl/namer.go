package wgsl

import (
	"strconv"
	"strings"
)

// namer allocates the mangled identifiers used in generated WGSL.
// Every name gets a numeric suffix from a monotonic counter, so the hint is
// only a readability prefix; usedNames catches clashes with names reserved
// by the emitter.
type namer struct {
	usedNames map[string]struct{}
	counter   uint32
}

// newNamer creates a namer with the given names reserved.
func newNamer(reserved ...string) *namer {
	n := &namer{
		usedNames: make(map[string]struct{}, len(reserved)),
	}
	for _, name := range reserved {
		n.reserve(name)
	}
	return n
}

// call returns a fresh identifier derived from hint.
func (n *namer) call(hint string) string {
	base := sanitizeIdentifier(hint)
	for {
		n.counter++
		candidate := base + "_" + strconv.FormatUint(uint64(n.counter), 10)
		if !n.isUsed(candidate) {
			n.usedNames[candidate] = struct{}{}
			return candidate
		}
	}
}

// isUsed checks if a name has already been handed out or reserved.
func (n *namer) isUsed(name string) bool {
	_, used := n.usedNames[name]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	n.usedNames[name] = struct{}{}
}

// sanitizeIdentifier maps an arbitrary host name to a WGSL identifier
// prefix. Characters outside [A-Za-z0-9_] become underscores; leading
// underscores are dropped since WGSL reserves the "__" prefix.
func sanitizeIdentifier(hint string) string {
	var b strings.Builder
	b.Grow(len(hint))
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.TrimLeft(b.String(), "_")
	switch {
	case s == "":
		return "tmp"
	case s[0] >= '0' && s[0] <= '9':
		return "v" + s
	default:
		return s
	}
}
