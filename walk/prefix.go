package walk

import (
	"strings"

	"github.com/gobeaver/icekit"
)

// CommonPrefix returns the deepest directory shared by every path.
//
// All paths must parse and live in the same bucket. The result is the
// longest common prefix of their keys cut back to the last '/', so a
// listing under it never starts mid file name. ok is false for empty input,
// unparsable paths or paths that span buckets.
func CommonPrefix(paths []string) (prefix icekit.Location, ok bool) {
	if len(paths) == 0 {
		return icekit.Location{}, false
	}

	first, err := icekit.ParseLocation(paths[0])
	if err != nil {
		return icekit.Location{}, false
	}

	common := first.Key
	for _, p := range paths[1:] {
		loc, err := icekit.ParseLocation(p)
		if err != nil || !icekit.SameBucket(first, loc) {
			return icekit.Location{}, false
		}
		common = sharedPrefix(common, loc.Key)
	}

	if i := strings.LastIndexByte(common, '/'); i >= 0 {
		common = common[:i+1]
	} else {
		common = ""
	}

	first.Key = common
	return first, true
}

func sharedPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
