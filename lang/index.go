package lang

import (
	"slices"
	"strconv"
	"strings"
)

// renameIndex shifts every loop ordinal in vars one level outward before a
// loop introduces its own INDEX: INDEX becomes INDEX1, INDEX1 becomes INDEX2,
// and so on. Only names made of INDEX and an optional decimal suffix are
// renamed. vars is modified in place and returned.
func renameIndex(vars Vars) Vars {
	var keys []string

	for k := range vars {
		if _, ok := indexDepth(k); ok {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	renamed := make(Vars, len(keys))

	for _, k := range keys {
		depth, _ := indexDepth(k)
		renamed[indexKey+strconv.Itoa(depth+1)] = vars[k]

		delete(vars, k)
	}

	for k, v := range renamed {
		vars[k] = v
	}

	return vars
}

// indexDepth returns the numeric suffix of a loop ordinal name, 0 for INDEX.
func indexDepth(name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, indexKey)
	if !ok {
		return 0, false
	}

	if suffix == "" {
		return 0, true
	}

	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(suffix)

	return n, err == nil
}
