package record

import (
	"testing"
)

func TestGettersReturnDefaults(t *testing.T) {
	r := New()
	r.PutInt32("count", 5)
	r.PutString("name", "iron_ingot")

	if got := r.Int32("count", -1); got != 5 {
		t.Errorf("Int32(count) = %d, want 5", got)
	}
	if got := r.Int32("missing", -1); got != -1 {
		t.Errorf("Int32(missing) = %d, want default -1", got)
	}
	// Wrong kind resolves to the default, not a panic or zero.
	if got := r.Int32("name", 7); got != 7 {
		t.Errorf("Int32 on string field = %d, want default 7", got)
	}
	if got := r.String("count", "fallback"); got != "fallback" {
		t.Errorf("String on int32 field = %q, want default", got)
	}
}

func TestInt64WidensInt32(t *testing.T) {
	r := New()
	r.PutInt32("legacy_time", 1200)

	if got := r.Int64("legacy_time", 0); got != 1200 {
		t.Errorf("Int64 over int32 field = %d, want 1200", got)
	}
}

func TestNestedRecordsAndLists(t *testing.T) {
	item := New()
	item.PutString("id", "minecraft:emerald")
	item.PutInt32("count", 3)

	r := New()
	r.PutList("items", []*Record{item})
	r.PutRecord("meta", item.Copy())

	list := r.List("items")
	if len(list) != 1 {
		t.Fatalf("List(items) has %d elements, want 1", len(list))
	}
	if got := list[0].String("id", ""); got != "minecraft:emerald" {
		t.Errorf("items[0].id = %q", got)
	}
	if r.Record("meta") == nil {
		t.Fatal("Record(meta) = nil")
	}
	if r.Record("items") != nil {
		t.Error("Record on a list field should be nil")
	}
}

func TestEqual(t *testing.T) {
	a := New()
	a.PutInt64("earnings", 420)
	a.PutBool("sold", true)

	b := New()
	b.PutBool("sold", true)
	b.PutInt64("earnings", 420)

	if !a.Equal(b) {
		t.Error("records with same fields in different insert order must be equal")
	}

	b.PutInt64("earnings", 421)
	if a.Equal(b) {
		t.Error("records with different values must not be equal")
	}
}

func TestCopyIsDeep(t *testing.T) {
	inner := New()
	inner.PutInt32("lvl", 2)
	a := New()
	a.PutRecord("ench", inner)

	cp := a.Copy()
	inner.PutInt32("lvl", 5)

	if got := cp.Record("ench").Int32("lvl", 0); got != 2 {
		t.Errorf("copy observed mutation of original: lvl = %d, want 2", got)
	}
}
