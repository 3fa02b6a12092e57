package compute

import "sync"

// PropertyID is the integer handle of a named binding slot.
// IDs are interned per process and start at 1, so the zero value means
// "not resolved yet". They are not stable across processes and must never
// be persisted; persist the name and call PropertyToID again.
type PropertyID int

var properties = struct {
	sync.Mutex
	byName map[string]PropertyID
	names  []string
}{
	byName: make(map[string]PropertyID),
	names:  []string{""},
}

// PropertyToID returns the id for name, allocating one on first use.
func PropertyToID(name string) PropertyID {
	properties.Lock()
	defer properties.Unlock()
	if id, ok := properties.byName[name]; ok {
		return id
	}
	id := PropertyID(len(properties.names))
	properties.byName[name] = id
	properties.names = append(properties.names, name)
	return id
}

// PropertyName returns the name id was allocated for, or "" if unknown.
func PropertyName(id PropertyID) string {
	properties.Lock()
	defer properties.Unlock()
	if id <= 0 || int(id) >= len(properties.names) {
		return ""
	}
	return properties.names[id]
}
