// pricecalc is an offline price calculator: it valuates an item and,
// given a town, prints the full per-town price breakdown without running
// a server.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/oakmere/tradewinds/internal/config"
	"github.com/oakmere/tradewinds/internal/data"
	"github.com/oakmere/tradewinds/internal/game/economy"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

func main() {
	var (
		item     = flag.String("item", "", "item id, e.g. minecraft:iron_ingot")
		count    = flag.Int("count", 1, "stack count")
		enchants = flag.Int("enchants", 0, "number of enchantments on the stack")
		rarity   = flag.String("rarity", "", "rarity attribute (common/uncommon/rare/epic)")
		town     = flag.String("town", "", "town id for a full breakdown")
		tax      = flag.Int("tax", 0, "tax percent applied on top of material cost")
	)
	flag.Parse()

	if *item == "" {
		fmt.Fprintln(os.Stderr, "usage: pricecalc -item <id> [-count n] [-enchants n] [-rarity r] [-town id] [-tax pct]")
		os.Exit(2)
	}

	cfg := config.DefaultEconomy()
	cfg.Clamp()
	engine := economy.New(cfg, data.DefaultRegistry(), rand.New(rand.NewPCG(1, 2)))

	stack := buildStack(*item, int32(*count), *enchants, *rarity)

	tier := engine.Valuate(stack)
	if tier.IsZero() {
		fmt.Printf("%s: no value\n", *item)
		return
	}
	fmt.Printf("%s x%d\n", stack.DisplayName(), stack.Count)
	fmt.Printf("  base price: %d\n", tier.BasePrice)
	fmt.Printf("  max price:  %d\n", tier.MaxPrice)

	if *town == "" {
		return
	}

	b, err := engine.PriceBreakdown(stack, *town, *tax)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("at %s:\n", b.Town)
	fmt.Printf("  material cost: %d\n", b.MaterialCost)
	fmt.Printf("  tax (%d%%):     %d\n", b.TaxPercent, b.Tax)
	fmt.Printf("  subtotal:      %d\n", b.Subtotal)
	fmt.Printf("  need level:    %s (x%.2f)\n", b.NeedLevel, b.NeedMult)
	fmt.Printf("  distance:      x%.2f\n", b.DistanceMult)
	fmt.Printf("  demand:        x%.2f\n", b.DemandMult)
	fmt.Printf("  final price:   %d\n", b.FinalPrice)
	fmt.Printf("  max price:     %d\n", b.MaxPrice)
}

func buildStack(item string, count int32, enchants int, rarity string) model.ItemStack {
	stack := model.NewStack(model.ItemID(item), count)
	if enchants <= 0 && rarity == "" {
		return stack
	}
	attrs := record.New()
	if enchants > 0 {
		list := make([]*record.Record, 0, enchants)
		for i := 0; i < enchants; i++ {
			e := record.New()
			e.PutString("id", fmt.Sprintf("enchant_%d", i))
			e.PutInt32("lvl", 1)
			list = append(list, e)
		}
		attrs.PutList(model.AttrEnchantments, list)
	}
	if rarity != "" {
		attrs.PutString(model.AttrRarity, rarity)
	}
	stack.Attrs = attrs
	return stack
}
