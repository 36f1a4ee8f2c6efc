package draft

import (
	"fmt"

	"propshoot/pkg/catalog"
	"propshoot/pkg/model"
	"propshoot/pkg/scheduling"
)

type PropertyView struct {
	ID        string               `json:"id"`
	Minutes   int                  `json:"minutes"`
	WorkHours float64              `json:"work_hours"`
	Items     []catalog.LineItem   `json:"items"`
	Price     catalog.Money        `json:"price"`
	Slots     []model.TimeInterval `json:"slots"`
	Loaded    bool                 `json:"loaded"`
	Chosen    *model.TimeInterval  `json:"chosen,omitempty"`
	Cleared   bool                 `json:"cleared,omitempty"`
	Pending   bool                 `json:"pending,omitempty"`
}

// View is everything shown for a draft. It is derived, never stored.
type View struct {
	Properties []PropertyView `json:"properties"`
	Quote      catalog.Quote  `json:"quote"`
	Complete   bool           `json:"complete"`
	Missing    []string       `json:"missing,omitempty"`
}

// Derive recomputes durations, prices and the coordinated slots of every
// property.
func Derive(d Draft) View {
	results := scheduling.Coordinate(d.plans())
	view := View{
		Properties: make([]PropertyView, len(d.Properties)),
		Quote:      catalog.QuoteOrder(d.Selections(), d.DiscountPercentage()),
	}

	for i, p := range d.Properties {
		pq := view.Quote.Properties[i]
		view.Properties[i] = PropertyView{
			ID:        p.ID,
			Minutes:   pq.Minutes,
			WorkHours: pq.WorkHours,
			Items:     pq.Items,
			Price:     pq.Subtotal,
			Slots:     results[i].Slots,
			Loaded:    p.Slots != nil,
			Chosen:    results[i].Chosen,
			Cleared:   p.Cleared || results[i].Cleared,
			Pending:   results[i].Pending,
		}
	}

	view.Missing = missing(d, view)
	view.Complete = len(view.Missing) == 0
	return view
}

// missing lists what still blocks checkout. Properties without services
// are ignored.
func missing(d Draft, view View) []string {
	var out []string
	if d.Agent.Name == "" || d.Agent.Email == "" || d.Agent.Phone == "" {
		out = append(out, "agent details")
	}
	if view.Quote.BillableProperties == 0 {
		out = append(out, "at least one service")
	}
	for i, p := range d.Properties {
		pv := view.Properties[i]
		if pv.Minutes == 0 {
			continue
		}
		if p.Address == "" || p.Postcode == "" {
			out = append(out, fmt.Sprintf("%s: address", p.ID))
		}
		if p.Date == "" {
			out = append(out, fmt.Sprintf("%s: date", p.ID))
			continue
		}
		if pv.Chosen == nil || pv.Pending {
			out = append(out, fmt.Sprintf("%s: time slot", p.ID))
		}
	}
	return out
}

// Order converts the billable properties of d into the order confirmed once
// payment completes.
func (d Draft) Order(id string) *model.Order {
	order := &model.Order{
		ID:    id,
		Agent: d.Agent,
	}
	if d.Discount != nil {
		order.DiscountCode = d.Discount.Code
		order.DiscountPercentage = d.Discount.Percentage
	}
	for _, p := range d.Properties {
		if catalog.Minutes(p.Services) == 0 {
			continue
		}
		po := model.PropertyOrder{
			Address:  p.Address,
			Postcode: p.Postcode,
			Date:     p.Date,
			Notes:    p.Notes,
			Services: p.Services,
		}
		if p.Chosen != nil {
			po.StartTime = model.FormatClock(p.Chosen.Start)
		}
		order.Properties = append(order.Properties, po)
	}
	return order
}
