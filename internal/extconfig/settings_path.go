package extconfig

import "strings"

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), PathSeparator)
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// Set stores value under a "/" separated path, creating intermediate
// sections and replacing non-section values found on the way. It returns
// the receiver, allocating it when nil.
func (s Settings) Set(path string, value any) Settings {
	if s == nil {
		s = Settings{}
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return s
	}
	current := map[string]any(s)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := asSection(current[segment])
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
	return s
}

// Unset removes the value under path and prunes sections left empty. It
// reports whether anything was removed.
func (s Settings) Unset(path string) bool {
	segments := splitPath(path)
	if len(segments) == 0 || s == nil {
		return false
	}
	return unset(map[string]any(s), segments)
}

func unset(section map[string]any, segments []string) bool {
	key := segments[0]
	if len(segments) == 1 {
		if _, ok := section[key]; !ok {
			return false
		}
		delete(section, key)
		return true
	}
	child, ok := asSection(section[key])
	if !ok {
		return false
	}
	removed := unset(child, segments[1:])
	if removed && len(child) == 0 {
		delete(section, key)
	}
	return removed
}
