package blastradius

import (
	"sort"
	"strings"
)

// Reference prefixes recognized by the dependency scanner. Plain resource
// references (e.g. "aws_vpc.main.id") carry neither prefix and are not
// captured; callers relying on those edges will not see them.
const (
	interpMark   = "${"
	dataPrefix   = "data."
	modulePrefix = "module."
)

// Dependencies walks a record body and returns every referenced address found
// in it, deduplicated and sorted. Two rules apply to mapping entries, in
// order: a "source" key holding a string is recorded verbatim as a module
// source, and any other string starting with an interpolation marker or a
// data./module. prefix is recorded once stripped of the marker, provided the
// stripped form still carries one of the prefixes. Nothing is validated here;
// dangling references are dropped during graph assembly.
func Dependencies(body Value) []string {
	seen := map[string]struct{}{}
	walkValue(body, seen)

	out := make([]string, 0, len(seen))
	for dep := range seen {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

func walkValue(v Value, seen map[string]struct{}) {
	switch val := v.(type) {
	case MapVal:
		for _, entry := range val {
			if s, ok := entry.Val.(StringVal); ok {
				if entry.Key == "source" {
					seen[string(s)] = struct{}{}
				} else if ref, ok := referencedAddress(string(s)); ok {
					seen[ref] = struct{}{}
				}
				continue
			}
			walkValue(entry.Val, seen)
		}
	case SeqVal:
		for _, item := range val {
			// strings inside sequences carry no key context and are skipped
			walkValue(item, seen)
		}
	}
}

// referencedAddress applies the prefix rule to one string value.
func referencedAddress(s string) (string, bool) {
	if !strings.HasPrefix(s, interpMark) &&
		!strings.HasPrefix(s, dataPrefix) &&
		!strings.HasPrefix(s, modulePrefix) {
		return "", false
	}

	ref := strings.Trim(s, "${}")
	if strings.HasPrefix(ref, dataPrefix) || strings.HasPrefix(ref, modulePrefix) {
		return ref, true
	}
	return "", false
}
