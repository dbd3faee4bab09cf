package ast

// Object is an insertion-order-preserving string-to-Value mapping, the
// payload of an object-kind Value. Modeled directly on the DWScript
// jsonvalue.Value object fields (objEntries + objKeys).
type Object struct {
	entries map[string]*Value
	keys    []string
}

// NewObjectPayload returns an empty object payload.
func NewObjectPayload() *Object {
	return &Object{entries: make(map[string]*Value)}
}

// Get returns the value for key, or nil if absent.
func (o *Object) Get(key string) *Value {
	if o == nil {
		return nil
	}
	return o.entries[key]
}

// Set assigns key to v, appending key to the insertion order on first write.
func (o *Object) Set(key string, v *Value) {
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.entries[key]
	return ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Clone returns a shallow copy (same *Value children, fresh container).
func (o *Object) Clone() *Object {
	clone := NewObjectPayload()
	for _, k := range o.Keys() {
		clone.Set(k, o.Get(k))
	}
	return clone
}
