// Package metadata maps an order to and from the key/value metadata carried
// on a checkout session. Stripe limits metadata to 50 keys of at most 500
// characters each, so every property travels as its own JSON value.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"propshoot/pkg/model"
)

const (
	KeyOrderID            = "order_id"
	KeyAgentName          = "agent_name"
	KeyAgentCompany       = "agent_company"
	KeyAgentEmail         = "agent_email"
	KeyAgentPhone         = "agent_phone"
	KeyPropertyCount      = "property_count"
	KeyDiscountCode       = "discount_code"
	KeyDiscountPercentage = "discount_percentage"

	MaxValueLength = 500
)

var ErrInvalid = errors.New("invalid checkout metadata")

// PropertyKey is the key holding the i-th property.
func PropertyKey(i int) string {
	return "property_" + strconv.Itoa(i)
}

type property struct {
	Address   string                 `json:"address"`
	Postcode  string                 `json:"postcode"`
	Date      string                 `json:"date"`
	StartTime string                 `json:"start_time"`
	Notes     string                 `json:"notes,omitempty"`
	Services  model.ServiceSelection `json:"services"`
}

// Encode renders order as checkout metadata.
func Encode(order *model.Order) (map[string]string, error) {
	meta := map[string]string{
		KeyOrderID:       order.ID,
		KeyAgentName:     order.Agent.Name,
		KeyAgentCompany:  order.Agent.Company,
		KeyAgentEmail:    order.Agent.Email,
		KeyAgentPhone:    order.Agent.Phone,
		KeyPropertyCount: strconv.Itoa(len(order.Properties)),
	}
	if order.DiscountCode != "" {
		meta[KeyDiscountCode] = order.DiscountCode
		meta[KeyDiscountPercentage] = strconv.Itoa(order.DiscountPercentage)
	}

	for i, p := range order.Properties {
		raw, err := json.Marshal(property{
			Address:   p.Address,
			Postcode:  p.Postcode,
			Date:      p.Date,
			StartTime: p.StartTime,
			Notes:     p.Notes,
			Services:  p.Services,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to encode property %d: %w", i, err)
		}
		meta[PropertyKey(i)] = string(raw)
	}

	for key, value := range meta {
		if len(value) > MaxValueLength {
			return nil, fmt.Errorf("%w: %s is longer than %d characters", ErrInvalid, key, MaxValueLength)
		}
	}
	return meta, nil
}

// Decode rebuilds the order paid for in session.
func Decode(meta map[string]string, session string) (*model.Order, error) {
	count, err := strconv.Atoi(meta[KeyPropertyCount])
	if err != nil || count < 1 {
		return nil, fmt.Errorf("%w: property_count %q", ErrInvalid, meta[KeyPropertyCount])
	}

	order := &model.Order{
		ID:             meta[KeyOrderID],
		PaymentSession: session,
		Agent: model.Agent{
			Name:    meta[KeyAgentName],
			Company: meta[KeyAgentCompany],
			Email:   meta[KeyAgentEmail],
			Phone:   meta[KeyAgentPhone],
		},
		DiscountCode: meta[KeyDiscountCode],
		Properties:   make([]model.PropertyOrder, 0, count),
	}

	if pct := meta[KeyDiscountPercentage]; pct != "" {
		order.DiscountPercentage, err = strconv.Atoi(pct)
		if err != nil {
			return nil, fmt.Errorf("%w: discount_percentage %q", ErrInvalid, pct)
		}
	}

	for i := range count {
		raw, ok := meta[PropertyKey(i)]
		if !ok {
			return nil, fmt.Errorf("%w: %s missing", ErrInvalid, PropertyKey(i))
		}
		var p property
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, PropertyKey(i), err)
		}
		order.Properties = append(order.Properties, model.PropertyOrder{
			Address:   p.Address,
			Postcode:  p.Postcode,
			Date:      p.Date,
			StartTime: p.StartTime,
			Notes:     p.Notes,
			Services:  p.Services,
		})
	}
	return order, nil
}
