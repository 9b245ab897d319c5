package gvas

// Types maps property paths to the struct type of map keys, map values and
// set elements, which the binary format does not record. A path is the
// dot-separated chain of property names from the root, e.g.
// ".worldSaveData.GroupSaveDataMap.Key". Properties nested in a map key or
// value continue the map's path without the Key/Value segment.
//
// Types is immutable once built and safe to share between goroutines.
type Types struct {
	hints map[string]string
}

func NewTypes(hints map[string]string) *Types {
	t := &Types{hints: make(map[string]string, len(hints))}
	for path, structType := range hints {
		t.hints[path] = structType
	}
	return t
}

// Lookup returns the struct type recorded for path. A nil *Types has no hints.
func (t *Types) Lookup(path string) (string, bool) {
	if t == nil {
		return "", false
	}
	structType, ok := t.hints[path]
	return structType, ok
}

func (t *Types) lookupOr(path, fallback string) string {
	if structType, ok := t.Lookup(path); ok {
		return structType
	}
	return fallback
}

func (t *Types) Len() int {
	if t == nil {
		return 0
	}
	return len(t.hints)
}
