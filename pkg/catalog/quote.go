package catalog

import "propshoot/pkg/model"

// PropertyQuote is one property's share of an order. The discount shares
// across all properties sum to the order discounts exactly.
type PropertyQuote struct {
	Index         int        `json:"index"`
	Items         []LineItem `json:"items"`
	Minutes       int        `json:"minutes"`
	WorkHours     float64    `json:"work_hours"`
	Subtotal      Money      `json:"subtotal"`
	MultiDiscount Money      `json:"multi_property_discount"`
	CodeDiscount  Money      `json:"code_discount"`
	Total         Money      `json:"total"`
}

type Quote struct {
	Properties         []PropertyQuote `json:"properties"`
	BillableProperties int             `json:"billable_properties"`
	Subtotal           Money           `json:"subtotal"`
	MultiDiscount      Money           `json:"multi_property_discount"`
	DiscountPercentage int             `json:"discount_percentage"`
	CodeDiscount       Money           `json:"code_discount"`
	Total              Money           `json:"total"`
}

// QuoteOrder prices a multi-property order. Properties without billable
// services are listed at zero and do not count towards the multi-property
// discount. pct is applied after the multi-property discount.
func QuoteOrder(sels []model.ServiceSelection, pct int) Quote {
	pct = min(max(pct, 0), 100)
	q := Quote{
		Properties:         make([]PropertyQuote, len(sels)),
		DiscountPercentage: pct,
	}

	billable := make([]int, 0, len(sels))
	for i, sel := range sels {
		items := LineItems(sel)
		pq := PropertyQuote{Index: i, Items: items}
		for _, item := range items {
			pq.Minutes += item.Minutes
			pq.Subtotal += item.Amount
		}
		pq.WorkHours = WorkHours(pq.Minutes)
		if len(items) > 0 {
			billable = append(billable, i)
		}
		q.Subtotal += pq.Subtotal
		q.Properties[i] = pq
	}
	q.BillableProperties = len(billable)

	for n, i := range billable {
		if n == 0 {
			continue
		}
		pq := &q.Properties[i]
		pq.MultiDiscount = min(MultiPropertyDiscountPerProperty, pq.Subtotal)
		q.MultiDiscount += pq.MultiDiscount
	}

	afterMulti := q.Subtotal - q.MultiDiscount
	q.CodeDiscount = afterMulti.Percent(pct)
	q.Total = afterMulti - q.CodeDiscount

	allocated := Money(0)
	for n, i := range billable {
		pq := &q.Properties[i]
		net := pq.Subtotal - pq.MultiDiscount
		if n == len(billable)-1 {
			pq.CodeDiscount = q.CodeDiscount - allocated
		} else if afterMulti > 0 {
			pq.CodeDiscount = q.CodeDiscount * net / afterMulti
		}
		allocated += pq.CodeDiscount
		pq.Total = net - pq.CodeDiscount
	}
	return q
}
