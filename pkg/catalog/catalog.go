// Package catalog prices and times the services sold for one property.
// Minutes, Price and LineItems share one pass over Rules so duration and
// price can never disagree about which services count.
package catalog

import (
	"fmt"
	"math"

	"propshoot/pkg/model"
)

// MultiPropertyDiscountPerProperty is taken off for every property after the first.
const MultiPropertyDiscountPerProperty Money = 1500

type LineItem struct {
	Service Service `json:"service"`
	Label   string  `json:"label"`
	Minutes int     `json:"minutes"`
	Amount  Money   `json:"amount"`
}

// active returns the rules that count for sel after group precedence and
// parent requirements are applied. sel must already be normalized.
func active(sel model.ServiceSelection) []Rule {
	taken := make(map[string]bool)
	counted := make(map[Service]bool)
	out := make([]Rule, 0, len(Rules))

	for _, r := range Rules {
		if !r.Selected(sel) {
			continue
		}
		if r.Parent != "" && !counted[r.Parent] {
			continue
		}
		if r.Group != "" {
			if taken[r.Group] {
				continue
			}
			taken[r.Group] = true
		}
		counted[r.Service] = true
		out = append(out, r)
	}
	return out
}

func (r Rule) minutes(sel model.ServiceSelection) int {
	return r.Minutes.Base + r.Minutes.PerUnit*r.Minutes.Unit.quantity(sel)
}

func (r Rule) price(sel model.ServiceSelection) Money {
	p := r.Price
	if p.Tiers != nil {
		return p.Tiers[sel.DronePhotoCount]
	}
	qty := p.Unit.quantity(sel)
	amount := p.Base + p.PerUnit*Money(qty)
	if p.BulkFrom > 0 && qty >= p.BulkFrom {
		amount -= amount.Percent(p.BulkPercent)
	}
	return amount
}

func (r Rule) label(sel model.ServiceSelection) string {
	switch r.Service {
	case Photography:
		return fmt.Sprintf("%s (%d photos)", r.Label, sel.PhotoCount)
	case DronePhotography:
		return fmt.Sprintf("%s (%d photos)", r.Label, sel.DronePhotoCount)
	}
	if r.Price.Unit == UnitExtraBedroom {
		return fmt.Sprintf("%s (%d bed)", r.Label, sel.Bedrooms)
	}
	return r.Label
}

// LineItems lists the services that count for sel with their minutes and price.
func LineItems(sel model.ServiceSelection) []LineItem {
	sel = sel.Normalized()
	rules := active(sel)
	items := make([]LineItem, 0, len(rules))
	for _, r := range rules {
		items = append(items, LineItem{
			Service: r.Service,
			Label:   r.label(sel),
			Minutes: r.minutes(sel),
			Amount:  r.price(sel),
		})
	}
	return items
}

// Minutes is the on-site working time for sel. Zero means nothing billable.
func Minutes(sel model.ServiceSelection) int {
	total := 0
	for _, item := range LineItems(sel) {
		total += item.Minutes
	}
	return total
}

// Price is the undiscounted price for sel.
func Price(sel model.ServiceSelection) Money {
	var total Money
	for _, item := range LineItems(sel) {
		total += item.Amount
	}
	return total
}

// WorkHours converts minutes to hours rounded to two decimals.
func WorkHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// MultiPropertyDiscount is the order level discount for n billable properties.
func MultiPropertyDiscount(n int) Money {
	if n <= 1 {
		return 0
	}
	return MultiPropertyDiscountPerProperty * Money(n-1)
}
