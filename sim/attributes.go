package sim

// AttributeStore is per-entity key→value scratch space used to timestamp
// pathway milestones and derive elapsed-time metrics. Mutations are
// serialized by the single-threaded event loop.
type AttributeStore struct {
	values map[string]float64
}

// NewAttributeStore creates an empty store.
func NewAttributeStore() *AttributeStore {
	return &AttributeStore{values: make(map[string]float64)}
}

// Set records value under key, overwriting any previous value.
func (a *AttributeStore) Set(key string, value float64) {
	a.values[key] = value
}

// Get returns the value for key and whether it was ever set.
func (a *AttributeStore) Get(key string) (float64, bool) {
	v, ok := a.values[key]
	return v, ok
}

// Snapshot returns a copy of all attributes, for monitoring records.
func (a *AttributeStore) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
