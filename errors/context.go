package errors

import (
	"bytes"
	"encoding/json"
)

// Context is an insertion-ordered string→value map attached to errors.
// Keys serialize in the order they were first set.
type Context struct {
	keys   []string
	values map[string]any
}

// NewContext creates an empty ordered context.
func NewContext() *Context {
	return &Context{values: make(map[string]any)}
}

// Set stores a key-value pair, preserving first-insertion order,
// and returns the receiver for chaining.
func (c *Context) Set(key string, value any) *Context {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	return c
}

// Get returns the value for key and whether it is present.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Len returns the number of entries.
func (c *Context) Len() int {
	return len(c.keys)
}

// Keys returns the keys in insertion order.
func (c *Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Clone returns a deep copy of the key order with a shallow copy of values.
func (c *Context) Clone() *Context {
	clone := NewContext()
	for _, k := range c.keys {
		clone.Set(k, c.values[k])
	}
	return clone
}

// MarshalJSON serializes entries in insertion order.
func (c *Context) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
