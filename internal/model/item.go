package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oakmere/tradewinds/internal/record"
)

// ItemID is a namespaced registry path, e.g. "minecraft:iron_ingot".
// The simulation treats item identity as opaque apart from path heuristics.
type ItemID string

// Namespace returns the part before the colon, or "minecraft" when the ID
// is unqualified.
func (id ItemID) Namespace() string {
	if i := strings.IndexByte(string(id), ':'); i >= 0 {
		return string(id[:i])
	}
	return "minecraft"
}

// Path returns the part after the colon.
func (id ItemID) Path() string {
	if i := strings.IndexByte(string(id), ':'); i >= 0 {
		return string(id[i+1:])
	}
	return string(id)
}

// Attribute keys understood by the core. Anything else in the blob is
// carried through serialization untouched.
const (
	AttrEnchantments  = "enchantments"
	AttrPotion        = "potion"
	AttrRarity        = "rarity"
	AttrMaxDurability = "max_durability"
	AttrRepairValue   = "repair_value"
	AttrAnimal        = "animal"
	AttrDisplayName   = "display_name"
)

// Enchantment is one enchantment entry on a stack.
type Enchantment struct {
	ID    string
	Level int32
}

// PotionKind distinguishes the brewing variants with their own price model.
type PotionKind int32

const (
	PotionNormal PotionKind = iota
	PotionSplash
	PotionLingering
)

// ParsePotionKind maps a persisted kind name; unrecognized values fall back
// to PotionNormal.
func ParsePotionKind(s string) PotionKind {
	switch s {
	case "splash":
		return PotionSplash
	case "lingering":
		return PotionLingering
	default:
		return PotionNormal
	}
}

// String returns the persisted kind name.
func (k PotionKind) String() string {
	switch k {
	case PotionSplash:
		return "splash"
	case PotionLingering:
		return "lingering"
	default:
		return "normal"
	}
}

// PotionEffect is one status effect carried by a potion or tipped arrow.
// Duration is in ticks; instant effects carry zero.
type PotionEffect struct {
	Effect    string
	Amplifier int32
	Duration  int32
}

// Potion is the decoded potion payload of a stack.
type Potion struct {
	Kind    PotionKind
	Effects []PotionEffect
}

// ItemStack is an item identity with a count and an optional attribute blob.
// Stacks are passed by value; the attribute record is shared, so callers that
// mutate attributes must copy first.
type ItemStack struct {
	ID    ItemID
	Count int32
	Attrs *record.Record
}

// NewStack creates a plain stack without attributes.
func NewStack(id ItemID, count int32) ItemStack {
	return ItemStack{ID: id, Count: count}
}

// IsEmpty reports whether the stack has no identity or a non-positive count.
func (s ItemStack) IsEmpty() bool {
	return s.ID == "" || s.Count <= 0
}

// Enchantments decodes the enchantment list from the attribute blob.
func (s ItemStack) Enchantments() []Enchantment {
	if s.Attrs == nil {
		return nil
	}
	list := s.Attrs.List(AttrEnchantments)
	if len(list) == 0 {
		return nil
	}
	out := make([]Enchantment, 0, len(list))
	for _, e := range list {
		id := e.String("id", "")
		if id == "" {
			continue
		}
		out = append(out, Enchantment{ID: id, Level: e.Int32("lvl", 1)})
	}
	return out
}

// EnchantCount returns the number of enchantments on the stack.
func (s ItemStack) EnchantCount() int {
	return len(s.Enchantments())
}

// Potion decodes the potion payload, reporting false when the stack carries
// none.
func (s ItemStack) Potion() (Potion, bool) {
	if s.Attrs == nil {
		return Potion{}, false
	}
	pr := s.Attrs.Record(AttrPotion)
	if pr == nil {
		return Potion{}, false
	}
	p := Potion{Kind: ParsePotionKind(pr.String("kind", "normal"))}
	for _, er := range pr.List("effects") {
		name := er.String("effect", "")
		if name == "" {
			continue
		}
		p.Effects = append(p.Effects, PotionEffect{
			Effect:    name,
			Amplifier: er.Int32("amplifier", 0),
			Duration:  er.Int32("duration", 0),
		})
	}
	return p, true
}

// Rarity reads the rarity attribute; missing or unknown values are Common.
func (s ItemStack) Rarity() Rarity {
	if s.Attrs == nil {
		return RarityCommon
	}
	return ParseRarity(s.Attrs.String(AttrRarity, ""))
}

// MaxDurability reads the durability attribute, 0 when absent.
func (s ItemStack) MaxDurability() int32 {
	if s.Attrs == nil {
		return 0
	}
	return s.Attrs.Int32(AttrMaxDurability, 0)
}

// RepairValue reads the declared repair-ingredient value, 0 when absent.
func (s ItemStack) RepairValue() int64 {
	if s.Attrs == nil {
		return 0
	}
	return s.Attrs.Int64(AttrRepairValue, 0)
}

// DisplayName returns the player-facing name: the explicit display_name
// attribute when set, otherwise the path with underscores spaced out and
// words capitalized ("iron_ingot" → "Iron Ingot").
func (s ItemStack) DisplayName() string {
	if s.Attrs != nil {
		if n := s.Attrs.String(AttrDisplayName, ""); n != "" {
			return n
		}
	}
	words := strings.Split(s.ID.Path(), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// VariantKey is the composite identity used for stock slots: plain items key
// by ID alone, variant items (enchanted books, potions, filled slips) append
// their distinguishing attributes so each variant occupies its own slot.
func (s ItemStack) VariantKey() string {
	var sb strings.Builder
	sb.WriteString(string(s.ID))

	for _, e := range s.Enchantments() {
		sb.WriteString("|e:")
		sb.WriteString(e.ID)
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(int(e.Level)))
	}
	if p, ok := s.Potion(); ok {
		sb.WriteString("|p:")
		sb.WriteString(p.Kind.String())
		effects := make([]string, 0, len(p.Effects))
		for _, ef := range p.Effects {
			var eb strings.Builder
			eb.WriteString(ef.Effect)
			eb.WriteByte('/')
			eb.WriteString(strconv.Itoa(int(ef.Amplifier)))
			effects = append(effects, eb.String())
		}
		sort.Strings(effects)
		for _, ef := range effects {
			sb.WriteByte(';')
			sb.WriteString(ef)
		}
	}
	if s.Attrs != nil {
		if a := s.Attrs.String(AttrAnimal, ""); a != "" {
			sb.WriteString("|a:")
			sb.WriteString(a)
		}
	}
	return sb.String()
}

// Save serializes the stack to a record.
func (s ItemStack) Save() *record.Record {
	r := record.New()
	r.PutString("id", string(s.ID))
	r.PutInt32("count", s.Count)
	if s.Attrs != nil {
		r.PutRecord("attrs", s.Attrs.Copy())
	}
	return r
}

// LoadStack deserializes a stack saved with Save. A nil or empty record
// yields an empty stack, which callers skip.
func LoadStack(r *record.Record) ItemStack {
	if r == nil {
		return ItemStack{}
	}
	s := ItemStack{
		ID:    ItemID(r.String("id", "")),
		Count: r.Int32("count", 0),
	}
	if attrs := r.Record("attrs"); attrs != nil {
		s.Attrs = attrs.Copy()
	}
	return s
}

