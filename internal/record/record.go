// Package record implements the generic structured record format used at
// the persistence boundary. A Record is a nested key→value tree supporting
// int32, int64, float64, string, bool, lists and nested records.
//
// Every getter takes an explicit default that is returned when the key is
// missing or holds a value of a different kind, so loading a legacy record
// with absent fields resolves to documented defaults instead of failing.
package record

import (
	"fmt"
	"sort"
)

// Kind identifies the type of a stored value.
type Kind uint8

const (
	KindInt32 Kind = iota + 1
	KindInt64
	KindFloat64
	KindString
	KindBool
	KindList
	KindRecord
)

// String returns human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

type entry struct {
	kind Kind
	v    any // int32, int64, float64, string, bool, []*Record, *Record
}

// Record is one node of the tree. The zero value is not usable; construct
// with New.
type Record struct {
	fields map[string]entry
}

// New creates an empty record.
func New() *Record {
	return &Record{fields: make(map[string]entry)}
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.fields)
}

// Has reports whether key is present, regardless of kind.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Keys returns all keys in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Record) PutInt32(key string, v int32)   { r.fields[key] = entry{KindInt32, v} }
func (r *Record) PutInt64(key string, v int64)   { r.fields[key] = entry{KindInt64, v} }
func (r *Record) PutFloat64(key string, v float64) { r.fields[key] = entry{KindFloat64, v} }
func (r *Record) PutString(key string, v string) { r.fields[key] = entry{KindString, v} }
func (r *Record) PutBool(key string, v bool)     { r.fields[key] = entry{KindBool, v} }

// PutRecord stores a nested record. Nil values are ignored.
func (r *Record) PutRecord(key string, v *Record) {
	if v == nil {
		return
	}
	r.fields[key] = entry{KindRecord, v}
}

// PutList stores a list of records. Nil elements are skipped.
func (r *Record) PutList(key string, elems []*Record) {
	list := make([]*Record, 0, len(elems))
	for _, e := range elems {
		if e != nil {
			list = append(list, e)
		}
	}
	r.fields[key] = entry{KindList, list}
}

// Int32 returns the int32 stored at key, or def when the key is missing or
// holds a different kind.
func (r *Record) Int32(key string, def int32) int32 {
	if e, ok := r.fields[key]; ok && e.kind == KindInt32 {
		return e.v.(int32)
	}
	return def
}

// Int64 returns the int64 stored at key, or def. An int32 value is widened,
// so fields persisted before a widening change still load.
func (r *Record) Int64(key string, def int64) int64 {
	e, ok := r.fields[key]
	if !ok {
		return def
	}
	switch e.kind {
	case KindInt64:
		return e.v.(int64)
	case KindInt32:
		return int64(e.v.(int32))
	default:
		return def
	}
}

// Float64 returns the float64 stored at key, or def.
func (r *Record) Float64(key string, def float64) float64 {
	if e, ok := r.fields[key]; ok && e.kind == KindFloat64 {
		return e.v.(float64)
	}
	return def
}

// String returns the string stored at key, or def.
func (r *Record) String(key string, def string) string {
	if e, ok := r.fields[key]; ok && e.kind == KindString {
		return e.v.(string)
	}
	return def
}

// Bool returns the bool stored at key, or def.
func (r *Record) Bool(key string, def bool) bool {
	if e, ok := r.fields[key]; ok && e.kind == KindBool {
		return e.v.(bool)
	}
	return def
}

// Record returns the nested record at key, or nil when absent.
func (r *Record) Record(key string) *Record {
	if e, ok := r.fields[key]; ok && e.kind == KindRecord {
		return e.v.(*Record)
	}
	return nil
}

// List returns the list stored at key, or nil when absent.
func (r *Record) List(key string) []*Record {
	if e, ok := r.fields[key]; ok && e.kind == KindList {
		return e.v.([]*Record)
	}
	return nil
}

// Equal reports deep field-for-field equality with other.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.fields) != len(other.fields) {
		return false
	}
	for k, e := range r.fields {
		oe, ok := other.fields[k]
		if !ok || e.kind != oe.kind {
			return false
		}
		switch e.kind {
		case KindRecord:
			if !e.v.(*Record).Equal(oe.v.(*Record)) {
				return false
			}
		case KindList:
			a, b := e.v.([]*Record), oe.v.([]*Record)
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !a[i].Equal(b[i]) {
					return false
				}
			}
		default:
			if e.v != oe.v {
				return false
			}
		}
	}
	return true
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}
	out := New()
	for k, e := range r.fields {
		switch e.kind {
		case KindRecord:
			out.fields[k] = entry{KindRecord, e.v.(*Record).Copy()}
		case KindList:
			src := e.v.([]*Record)
			list := make([]*Record, len(src))
			for i, el := range src {
				list[i] = el.Copy()
			}
			out.fields[k] = entry{KindList, list}
		default:
			out.fields[k] = e
		}
	}
	return out
}

// GoString helps test failure output.
func (r *Record) GoString() string {
	if r == nil {
		return "record(nil)"
	}
	return fmt.Sprintf("record(%d keys: %v)", len(r.fields), r.Keys())
}
