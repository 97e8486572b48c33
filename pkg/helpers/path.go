package helpers

import "strings"

// HasPathPrefix reports whether the slash separated path starts with every component of prefix. Leading and
// trailing slashes in prefix are ignored and an empty prefix matches everything.
func HasPathPrefix(path, prefix string) bool {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return true
	}
	want := strings.Split(prefix, "/")
	have := strings.Split(strings.Trim(path, "/"), "/")
	if len(have) < len(want) {
		return false
	}
	for i := range want {
		if want[i] != have[i] {
			return false
		}
	}
	return true
}

// ReplaceExtension swaps the extension of path for ext, which must include its leading dot.
func ReplaceExtension(path, ext string) string {
	slash := strings.LastIndexAny(path, `/\`)
	dot := strings.LastIndex(path, ".")
	if dot > slash+1 {
		path = path[:dot]
	}
	return path + ext
}
