package httpapi

import (
	"github.com/oakmere/tradewinds/internal/game/diplomat"
	"github.com/oakmere/tradewinds/internal/game/economy"
	"github.com/oakmere/tradewinds/internal/game/shipment"
	"github.com/oakmere/tradewinds/internal/game/stock"
	"github.com/oakmere/tradewinds/internal/model"
	"github.com/oakmere/tradewinds/internal/record"
)

// stackRequest describes an item stack in a request body. Enchantments,
// potion payloads and rarity are optional; plain stacks carry only the id
// and count.
type stackRequest struct {
	Item         string `json:"item"`
	Count        int32  `json:"count"`
	Enchantments []struct {
		ID    string `json:"id"`
		Level int32  `json:"lvl"`
	} `json:"enchantments,omitempty"`
	Potion *struct {
		Kind    string `json:"kind"`
		Effects []struct {
			Effect    string `json:"effect"`
			Amplifier int32  `json:"amplifier"`
			Duration  int32  `json:"duration"`
		} `json:"effects"`
	} `json:"potion,omitempty"`
	Rarity string `json:"rarity,omitempty"`
}

func (q stackRequest) toStack() model.ItemStack {
	stack := model.NewStack(model.ItemID(q.Item), q.Count)
	if len(q.Enchantments) == 0 && q.Potion == nil && q.Rarity == "" {
		return stack
	}
	attrs := record.New()
	if len(q.Enchantments) > 0 {
		list := make([]*record.Record, 0, len(q.Enchantments))
		for _, e := range q.Enchantments {
			er := record.New()
			er.PutString("id", e.ID)
			er.PutInt32("lvl", e.Level)
			list = append(list, er)
		}
		attrs.PutList(model.AttrEnchantments, list)
	}
	if q.Potion != nil {
		pr := record.New()
		pr.PutString("kind", q.Potion.Kind)
		effects := make([]*record.Record, 0, len(q.Potion.Effects))
		for _, e := range q.Potion.Effects {
			er := record.New()
			er.PutString("effect", e.Effect)
			er.PutInt32("amplifier", e.Amplifier)
			er.PutInt32("duration", e.Duration)
			effects = append(effects, er)
		}
		pr.PutList("effects", effects)
		attrs.PutRecord(model.AttrPotion, pr)
	}
	if q.Rarity != "" {
		attrs.PutString(model.AttrRarity, q.Rarity)
	}
	stack.Attrs = attrs
	return stack
}

type workersRequest struct {
	CartSpeedPercent  int32 `json:"cart_speed_percent"`
	NegotiatorPercent int32 `json:"negotiator_percent"`
	TripCost          int64 `json:"trip_cost"`
}

func (q workersRequest) toBonuses() model.WorkerBonuses {
	b := model.WorkerBonuses{
		CartSpeedPercent:  q.CartSpeedPercent,
		NegotiatorPercent: q.NegotiatorPercent,
		TripCost:          q.TripCost,
	}
	b.Clamp()
	return b
}

type townView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Distance    int32    `json:"distance"`
	Type        string   `json:"type"`
	UnlockLevel int32    `json:"unlock_level"`
	Needs       []string `json:"needs"`
	Specialties []string `json:"specialties"`
}

func newTownView(t *model.TownProfile) townView {
	return townView{
		ID:          t.ID(),
		Name:        t.Name(),
		Distance:    t.Distance(),
		Type:        t.Type().String(),
		UnlockLevel: t.UnlockLevel(),
		Needs:       itemIDStrings(t.NeededItems()),
		Specialties: itemIDStrings(t.Specialties()),
	}
}

func itemIDStrings(ids []model.ItemID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

type listingView struct {
	Key         string `json:"key"`
	Item        string `json:"item"`
	DisplayName string `json:"display_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	OnSale      bool   `json:"on_sale"`
}

func newListingView(l stock.Listing) listingView {
	return listingView{
		Key:         l.Key,
		Item:        string(l.Stack.ID),
		DisplayName: l.Stack.DisplayName(),
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		OnSale:      l.OnSale,
	}
}

type marketView struct {
	Open      bool        `json:"open"`
	ExpiryDay int64       `json:"expiry_day,omitempty"`
	Offers    []offerView `json:"offers,omitempty"`
}

type offerView struct {
	Key         string `json:"key"`
	Item        string `json:"item"`
	DisplayName string `json:"display_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

func newMarketView(m *stock.BlackMarket) marketView {
	if m == nil {
		return marketView{}
	}
	v := marketView{Open: true, ExpiryDay: m.ExpiryDay}
	for _, o := range m.Offers {
		v.Offers = append(v.Offers, offerView{
			Key:         o.Stack.VariantKey(),
			Item:        string(o.Stack.ID),
			DisplayName: o.Stack.DisplayName(),
			Quantity:    o.Quantity,
			UnitPrice:   o.UnitPrice,
		})
	}
	return v
}

type breakdownView struct {
	Item         string  `json:"item"`
	Town         string  `json:"town"`
	MaterialCost int64   `json:"material_cost"`
	TaxPercent   int     `json:"tax_percent"`
	Tax          int64   `json:"tax"`
	Subtotal     int64   `json:"subtotal"`
	NeedLevel    string  `json:"need_level"`
	NeedMult     float64 `json:"need_mult"`
	DistanceMult float64 `json:"distance_mult"`
	DemandMult   float64 `json:"demand_mult"`
	FinalPrice   int64   `json:"final_price"`
	MaxPrice     int64   `json:"max_price"`
}

func newBreakdownView(b economy.Breakdown) breakdownView {
	return breakdownView{
		Item:         string(b.Item),
		Town:         b.Town,
		MaterialCost: b.MaterialCost,
		TaxPercent:   b.TaxPercent,
		Tax:          b.Tax,
		Subtotal:     b.Subtotal,
		NeedLevel:    b.NeedLevel.String(),
		NeedMult:     b.NeedMult,
		DistanceMult: b.DistanceMult,
		DemandMult:   b.DemandMult,
		FinalPrice:   b.FinalPrice,
		MaxPrice:     b.MaxPrice,
	}
}

type shipmentItemView struct {
	Item         string `json:"item"`
	Count        int32  `json:"count"`
	PricePerItem int64  `json:"price_per_item"`
	DisplayName  string `json:"display_name"`
	Sold         bool   `json:"sold"`
	Unsellable   bool   `json:"unsellable"`
}

type shipmentView struct {
	ID            string             `json:"id"`
	Town          string             `json:"town"`
	Status        string             `json:"status"`
	Departure     int64              `json:"departure"`
	Arrival       int64              `json:"arrival"`
	SoldTime      int64              `json:"sold_time,omitempty"`
	ReturnArrival int64              `json:"return_arrival,omitempty"`
	Earnings      int64              `json:"earnings"`
	Items         []shipmentItemView `json:"items"`
}

func newShipmentView(sh *shipment.Shipment) shipmentView {
	v := shipmentView{
		ID:            sh.ID.String(),
		Town:          sh.TownID,
		Status:        sh.Status.String(),
		Departure:     sh.Departure,
		Arrival:       sh.Arrival,
		SoldTime:      sh.SoldTime,
		ReturnArrival: sh.ReturnArrival,
		Earnings:      sh.Earnings,
	}
	for _, it := range sh.Items {
		v.Items = append(v.Items, shipmentItemView{
			Item:         string(it.ID),
			Count:        it.Count,
			PricePerItem: it.PricePerItem,
			DisplayName:  it.DisplayName,
			Sold:         it.Sold,
			Unsellable:   it.Unsellable,
		})
	}
	return v
}

type requestView struct {
	ID            string `json:"id"`
	Town          string `json:"town"`
	Item          string `json:"item"`
	Count         int32  `json:"count"`
	Status        string `json:"status"`
	TravelEnd     int64  `json:"travel_end"`
	DiscussionEnd int64  `json:"discussion_end"`
	GoodsEnd      int64  `json:"goods_end"`
	ReturnEnd     int64  `json:"return_end"`
	SupplyScore   int32  `json:"supply_score"`
	ProposedPrice int64  `json:"proposed_price"`
	Premium       int64  `json:"premium"`
	FinalCost     int64  `json:"final_cost,omitempty"`
}

func newRequestView(dr *diplomat.Request) requestView {
	return requestView{
		ID:            dr.ID.String(),
		Town:          dr.TownID,
		Item:          string(dr.Item),
		Count:         dr.Count,
		Status:        dr.Status.String(),
		TravelEnd:     dr.TravelEnd,
		DiscussionEnd: dr.DiscussionEnd,
		GoodsEnd:      dr.GoodsEnd,
		ReturnEnd:     dr.ReturnEnd,
		SupplyScore:   dr.SupplyScore,
		ProposedPrice: dr.ProposedPrice,
		Premium:       dr.Premium,
		FinalCost:     dr.FinalCost,
	}
}
