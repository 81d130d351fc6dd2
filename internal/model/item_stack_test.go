package model

import (
	"testing"

	"github.com/oakmere/tradewinds/internal/record"
)

func enchantedBook(t *testing.T, id string, lvl int32) ItemStack {
	t.Helper()
	ench := record.New()
	ench.PutString("id", id)
	ench.PutInt32("lvl", lvl)
	attrs := record.New()
	attrs.PutList(AttrEnchantments, []*record.Record{ench})
	return ItemStack{ID: "minecraft:enchanted_book", Count: 1, Attrs: attrs}
}

func splashPotion(t *testing.T, effect string, amplifier, duration int32) ItemStack {
	t.Helper()
	eff := record.New()
	eff.PutString("effect", effect)
	eff.PutInt32("amplifier", amplifier)
	eff.PutInt32("duration", duration)
	potion := record.New()
	potion.PutString("kind", "splash")
	potion.PutList("effects", []*record.Record{eff})
	attrs := record.New()
	attrs.PutRecord(AttrPotion, potion)
	return ItemStack{ID: "minecraft:splash_potion", Count: 1, Attrs: attrs}
}

func TestItemIDParts(t *testing.T) {
	id := ItemID("farmcraft:golden_wheat")
	if id.Namespace() != "farmcraft" {
		t.Errorf("Namespace() = %q", id.Namespace())
	}
	if id.Path() != "golden_wheat" {
		t.Errorf("Path() = %q", id.Path())
	}
	if ItemID("stone").Namespace() != "minecraft" {
		t.Error("unqualified IDs default to the minecraft namespace")
	}
}

func TestDisplayName(t *testing.T) {
	if got := NewStack("minecraft:iron_ingot", 1).DisplayName(); got != "Iron Ingot" {
		t.Errorf("DisplayName() = %q, want Iron Ingot", got)
	}

	attrs := record.New()
	attrs.PutString(AttrDisplayName, "Excalibur")
	s := ItemStack{ID: "minecraft:iron_sword", Count: 1, Attrs: attrs}
	if got := s.DisplayName(); got != "Excalibur" {
		t.Errorf("DisplayName() = %q, want Excalibur", got)
	}
}

func TestEnchantmentDecoding(t *testing.T) {
	book := enchantedBook(t, "minecraft:sharpness", 3)
	enchs := book.Enchantments()
	if len(enchs) != 1 || enchs[0].ID != "minecraft:sharpness" || enchs[0].Level != 3 {
		t.Errorf("Enchantments() = %+v", enchs)
	}
	if NewStack("minecraft:stone", 1).EnchantCount() != 0 {
		t.Error("plain stack must have no enchantments")
	}
}

func TestPotionDecoding(t *testing.T) {
	p, ok := splashPotion(t, "minecraft:swiftness", 1, 3600).Potion()
	if !ok {
		t.Fatal("Potion() not detected")
	}
	if p.Kind != PotionSplash {
		t.Errorf("Kind = %v, want splash", p.Kind)
	}
	if len(p.Effects) != 1 || p.Effects[0].Effect != "minecraft:swiftness" {
		t.Errorf("Effects = %+v", p.Effects)
	}
	if _, ok := NewStack("minecraft:stone", 1).Potion(); ok {
		t.Error("plain stack must not decode as potion")
	}
}

func TestVariantKeySeparatesVariants(t *testing.T) {
	plain := NewStack("minecraft:iron_ingot", 16)
	if plain.VariantKey() != "minecraft:iron_ingot" {
		t.Errorf("plain key = %q", plain.VariantKey())
	}

	a := enchantedBook(t, "minecraft:sharpness", 3)
	b := enchantedBook(t, "minecraft:sharpness", 4)
	c := enchantedBook(t, "minecraft:mending", 1)
	if a.VariantKey() == b.VariantKey() || a.VariantKey() == c.VariantKey() {
		t.Error("distinct enchantment variants must key to distinct slots")
	}
	if a.VariantKey() != enchantedBook(t, "minecraft:sharpness", 3).VariantKey() {
		t.Error("identical variants must share a slot key")
	}
}

func TestStackRoundTrip(t *testing.T) {
	stacks := []ItemStack{
		NewStack("minecraft:emerald", 12),
		enchantedBook(t, "minecraft:unbreaking", 2),
		splashPotion(t, "minecraft:healing", 0, 0),
	}
	for _, s := range stacks {
		back := LoadStack(s.Save())
		if back.ID != s.ID || back.Count != s.Count {
			t.Errorf("%s: identity lost in round trip", s.ID)
		}
		if s.VariantKey() != back.VariantKey() {
			t.Errorf("%s: variant key changed in round trip", s.ID)
		}
	}

	if !LoadStack(nil).IsEmpty() {
		t.Error("LoadStack(nil) must yield an empty stack")
	}
}
