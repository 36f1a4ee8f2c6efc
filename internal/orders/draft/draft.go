package draft

import (
	"fmt"
	"slices"
	"time"

	"propshoot/pkg/catalog"
	"propshoot/pkg/config"
	apperrors "propshoot/pkg/errors"
	"propshoot/pkg/model"
	"propshoot/pkg/scheduling"
)

// MaxProperties is the largest order a single checkout accepts.
const MaxProperties = 10

// Draft is an order being planned. Apply never mutates its argument.
type Draft struct {
	Agent      model.Agent     `json:"agent"`
	Properties []PropertyDraft `json:"properties"`
	Discount   *Discount       `json:"discount,omitempty"`
	NextID     int             `json:"next_id"`
}

type PropertyDraft struct {
	ID       string                 `json:"id"`
	Address  string                 `json:"address"`
	Postcode string                 `json:"postcode"`
	Notes    string                 `json:"notes,omitempty"`
	Services model.ServiceSelection `json:"services"`
	Date     string                 `json:"date,omitempty"`
	Chosen   *model.TimeInterval    `json:"chosen,omitempty"`
	// Slots are the base slots loaded for SlotsFor. Null means not loaded.
	Slots    []model.TimeInterval `json:"slots"`
	SlotsFor string               `json:"slots_for,omitempty"`
	// Cleared stays set until the property gets a new choice.
	Cleared bool `json:"cleared,omitempty"`
}

type Discount struct {
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
}

type Details struct {
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
	Notes    string `json:"notes"`
}

type ActionType string

const (
	AddProperty     ActionType = "add_property"
	RemoveProperty  ActionType = "remove_property"
	SetServices     ActionType = "set_services"
	SetDate         ActionType = "set_date"
	SetSlot         ActionType = "set_slot"
	SetAvailability ActionType = "set_availability"
	SetAgent        ActionType = "set_agent"
	SetDetails      ActionType = "set_details"
	ApplyDiscount   ActionType = "apply_discount"
	RemoveDiscount  ActionType = "remove_discount"
)

type Action struct {
	Type       ActionType              `json:"type"`
	PropertyID string                  `json:"property_id,omitempty"`
	Services   *model.ServiceSelection `json:"services,omitempty"`
	Date       string                  `json:"date,omitempty"`
	Slot       *model.TimeInterval     `json:"slot,omitempty"`
	Duration   int                     `json:"duration,omitempty"`
	Slots      []model.TimeInterval    `json:"slots,omitempty"`
	Agent      *model.Agent            `json:"agent,omitempty"`
	Details    *Details                `json:"details,omitempty"`
	Discount   *Discount               `json:"discount,omitempty"`
}

// Fetch names the availability a property needs loaded.
type Fetch struct {
	PropertyID string
	Date       string
	Duration   int
}

// New starts a draft with one empty property.
func New() Draft {
	return Draft{
		Properties: []PropertyDraft{{ID: "p1"}},
		NextID:     2,
	}
}

// Apply returns the draft after action. Slots loaded for another date or
// duration are dropped, choices that no longer fit are cleared and sibling
// properties are coordinated again.
func Apply(d Draft, action Action) (Draft, error) {
	next := d.clone()

	switch action.Type {
	case AddProperty:
		if len(next.Properties) >= MaxProperties {
			return d, apperrors.InvalidInput(fmt.Sprintf("An order can cover at most %d properties", MaxProperties))
		}
		if next.NextID < 1 {
			next.NextID = len(next.Properties) + 1
		}
		next.Properties = append(next.Properties, PropertyDraft{ID: fmt.Sprintf("p%d", next.NextID)})
		next.NextID++

	case RemoveProperty:
		i, err := next.index(action.PropertyID)
		if err != nil {
			return d, err
		}
		if len(next.Properties) == 1 {
			return d, apperrors.InvalidInput("An order needs at least one property")
		}
		next.Properties = slices.Delete(next.Properties, i, i+1)

	case SetServices:
		p, err := next.property(action.PropertyID)
		if err != nil {
			return d, err
		}
		if action.Services == nil {
			return d, apperrors.InvalidInput("services are required")
		}
		p.Services = *action.Services

	case SetDate:
		p, err := next.property(action.PropertyID)
		if err != nil {
			return d, err
		}
		if action.Date != "" {
			if _, err := time.Parse(config.DateLayout, action.Date); err != nil {
				return d, apperrors.InvalidInput("Valid date (YYYY-MM-DD) is required")
			}
		}
		if p.Date != action.Date && p.Chosen != nil {
			p.Chosen = nil
			p.Cleared = true
		}
		p.Date = action.Date

	case SetSlot:
		i, err := next.index(action.PropertyID)
		if err != nil {
			return d, err
		}
		p := &next.Properties[i]
		if action.Slot == nil {
			p.Chosen = nil
			break
		}
		if p.Date == "" {
			return d, apperrors.InvalidInput("Choose a date before a time slot")
		}
		if minutes := catalog.Minutes(p.Services); action.Slot.Duration() != minutes {
			return d, apperrors.InvalidInput(fmt.Sprintf("Time slot must last %d minutes", minutes))
		}
		// Only a slot from the property's own coordinated list may be taken.
		p.Chosen = nil
		next.reconcile()
		if !scheduling.Offered(next.plans(), i, *action.Slot) {
			return d, apperrors.Conflict("That time is no longer available")
		}
		slot := *action.Slot
		p.Chosen = &slot
		p.Cleared = false

	case SetAvailability:
		p, err := next.property(action.PropertyID)
		if err != nil {
			return d, err
		}
		// A response for a date or duration no longer selected is stale.
		if action.Duration <= 0 || p.Date != action.Date || catalog.Minutes(p.Services) != action.Duration {
			return d, nil
		}
		p.Slots = slices.Clone(action.Slots)
		if p.Slots == nil {
			p.Slots = []model.TimeInterval{}
		}
		p.SlotsFor = slotsKey(action.Date, action.Duration)

	case SetAgent:
		if action.Agent == nil {
			return d, apperrors.InvalidInput("agent is required")
		}
		next.Agent = *action.Agent

	case SetDetails:
		p, err := next.property(action.PropertyID)
		if err != nil {
			return d, err
		}
		if action.Details == nil {
			return d, apperrors.InvalidInput("details are required")
		}
		p.Address = action.Details.Address
		p.Postcode = action.Details.Postcode
		p.Notes = action.Details.Notes

	case ApplyDiscount:
		if action.Discount == nil || action.Discount.Code == "" {
			return d, apperrors.InvalidInput("Code is required")
		}
		next.Discount = &Discount{
			Code:       action.Discount.Code,
			Percentage: min(max(action.Discount.Percentage, 0), 100),
		}

	case RemoveDiscount:
		next.Discount = nil

	default:
		return d, apperrors.InvalidInput(fmt.Sprintf("unknown action %q", action.Type))
	}

	next.reconcile()

	if action.Type == SetSlot && action.Slot != nil {
		p, _ := next.property(action.PropertyID)
		if p.Chosen == nil {
			return d, apperrors.Conflict("That time is no longer available")
		}
	}
	return next, nil
}

// reconcile drops stale slots and choices, then coordinates siblings.
func (d *Draft) reconcile() {
	for i := range d.Properties {
		p := &d.Properties[i]
		minutes := catalog.Minutes(p.Services)
		if key := slotsKey(p.Date, minutes); key == "" || p.SlotsFor != key {
			p.Slots = nil
			p.SlotsFor = ""
		}
		if p.Chosen != nil && (p.Date == "" || p.Chosen.Duration() != minutes) {
			p.Chosen = nil
			p.Cleared = true
		}
	}

	for i, r := range scheduling.Coordinate(d.plans()) {
		p := &d.Properties[i]
		p.Chosen = r.Chosen
		if r.Cleared {
			p.Cleared = true
		}
	}
}

func (d Draft) plans() []scheduling.Plan {
	plans := make([]scheduling.Plan, len(d.Properties))
	for i, p := range d.Properties {
		plans[i] = scheduling.Plan{
			PropertyID: p.ID,
			Date:       p.Date,
			Duration:   catalog.Minutes(p.Services),
			Slots:      p.Slots,
			Chosen:     p.Chosen,
		}
	}
	return plans
}

// Scheduled lists every property with a date and at least one service.
func (d Draft) Scheduled() []Fetch {
	var out []Fetch
	for _, p := range d.Properties {
		if minutes := catalog.Minutes(p.Services); p.Date != "" && minutes > 0 {
			out = append(out, Fetch{PropertyID: p.ID, Date: p.Date, Duration: minutes})
		}
	}
	return out
}

// Unloaded lists the scheduled properties whose slots are not loaded.
func (d Draft) Unloaded() []Fetch {
	var out []Fetch
	for _, f := range d.Scheduled() {
		if p, _ := d.find(f.PropertyID); p.Slots == nil {
			out = append(out, f)
		}
	}
	return out
}

// Selections returns each property's services in order.
func (d Draft) Selections() []model.ServiceSelection {
	sels := make([]model.ServiceSelection, len(d.Properties))
	for i, p := range d.Properties {
		sels[i] = p.Services
	}
	return sels
}

func (d Draft) DiscountPercentage() int {
	if d.Discount == nil {
		return 0
	}
	return d.Discount.Percentage
}

func (d Draft) clone() Draft {
	out := d
	out.Properties = make([]PropertyDraft, len(d.Properties))
	for i, p := range d.Properties {
		if p.Chosen != nil {
			chosen := *p.Chosen
			p.Chosen = &chosen
		}
		p.Slots = slices.Clone(p.Slots)
		out.Properties[i] = p
	}
	if d.Discount != nil {
		discount := *d.Discount
		out.Discount = &discount
	}
	return out
}

func (d Draft) find(id string) (PropertyDraft, bool) {
	for _, p := range d.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return PropertyDraft{}, false
}

func (d *Draft) index(id string) (int, error) {
	for i := range d.Properties {
		if d.Properties[i].ID == id {
			return i, nil
		}
	}
	return -1, apperrors.NotFoundWithID("Property", id)
}

func (d *Draft) property(id string) (*PropertyDraft, error) {
	i, err := d.index(id)
	if err != nil {
		return nil, err
	}
	return &d.Properties[i], nil
}

func slotsKey(date string, duration int) string {
	if date == "" || duration <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%d", date, duration)
}
