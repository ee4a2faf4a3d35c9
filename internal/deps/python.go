package deps

import "strings"

// applyPythonRule classifies a Python import match from its dots, module
// and item_name captures. It reports false when the match carries none of
// them, leaving it to the generic path capture handling.
//
// The leading-dot run of a relative import counts levels: one dot is the
// importing file's own package, each further dot climbs one directory.
// "from ..config import x" in src/app.py therefore names ../config.
func applyPythonRule(caps map[string]string, target scanTarget, out *OrderedSet) bool {
	dots, hasDots := caps[captureDots]
	module, hasModule := caps[captureModule]
	item, hasItem := caps[captureItemName]

	switch {
	case hasDots:
		var tail string
		switch {
		case hasModule:
			tail = strings.ReplaceAll(module, ".", "/")
		case hasItem:
			tail = item
		}
		out.Add(target.relative(relativeSpecifier(len(dots), tail)))
		return true

	case hasModule:
		if strings.HasPrefix(module, ".") {
			out.Add(target.relative(module))
			return true
		}
		out.Add(ExternalPrefix + topLevel(module))
		return true

	case hasItem:
		out.Add(ExternalPrefix + topLevel(item))
		return true
	}
	return false
}

// relativeSpecifier builds "./" followed by levels-1 parent segments and
// tail.
func relativeSpecifier(levels int, tail string) string {
	var b strings.Builder
	b.WriteString("./")
	for i := 1; i < levels; i++ {
		b.WriteString("../")
	}
	b.WriteString(tail)
	return b.String()
}

// topLevel returns the segment before the first dot.
func topLevel(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
