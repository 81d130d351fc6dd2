package record

import (
	"bytes"
	"testing"
)

func buildSample() *Record {
	eff := New()
	eff.PutString("effect", "regeneration")
	eff.PutInt32("amplifier", 1)
	eff.PutInt32("duration", 9600)

	item := New()
	item.PutString("id", "minecraft:potion")
	item.PutInt32("count", 1)
	item.PutList("effects", []*Record{eff})

	r := New()
	r.PutString("town", "briarwick")
	r.PutInt64("departure", 24000)
	r.PutFloat64("discount", 0.15)
	r.PutBool("black_market", false)
	r.PutList("items", []*Record{item, item.Copy()})
	r.PutRecord("supply", New())
	return r
}

func TestMarshalRoundTrip(t *testing.T) {
	r := buildSample()

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !r.Equal(back) {
		t.Errorf("round-trip mismatch: %#v vs %#v", r, back)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(buildSample())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	b, err := Marshal(buildSample())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical records must encode to identical bytes")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":      nil,
		"short":      []byte("TW"),
		"bad magic":  []byte("XXXX\x01rest"),
		"bad version": append([]byte(codecMagic), 99),
	}
	for name, data := range cases {
		if _, err := Unmarshal(data); err == nil {
			t.Errorf("%s: Unmarshal accepted invalid input", name)
		}
	}
}

func TestUnmarshalRejectsTruncatedPayload(t *testing.T) {
	data, err := Marshal(buildSample())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	// Cut into the compressed payload.
	if _, err := Unmarshal(data[:len(data)-3]); err == nil {
		t.Error("Unmarshal accepted truncated payload")
	}
}
