package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshoot/pkg/model"
)

func photos(n int) model.ServiceSelection {
	return model.ServiceSelection{Photography: true, PhotoCount: n}
}

func TestQuoteOrder_SingleProperty(t *testing.T) {
	q := QuoteOrder([]model.ServiceSelection{photos(20)}, 0)

	assert.Equal(t, 1, q.BillableProperties)
	assert.Equal(t, Money(13000), q.Subtotal)
	assert.Equal(t, Money(0), q.MultiDiscount)
	assert.Equal(t, Money(13000), q.Total)
	assert.Equal(t, 40, q.Properties[0].Minutes)
}

func TestQuoteOrder_MultiPropertyThenCode(t *testing.T) {
	q := QuoteOrder([]model.ServiceSelection{photos(20), photos(20), photos(20)}, 10)

	assert.Equal(t, Money(39000), q.Subtotal)
	assert.Equal(t, Money(3000), q.MultiDiscount)
	// 10% of 360.00
	assert.Equal(t, Money(3600), q.CodeDiscount)
	assert.Equal(t, Money(32400), q.Total)

	assert.Equal(t, Money(0), q.Properties[0].MultiDiscount)
	assert.Equal(t, Money(1500), q.Properties[1].MultiDiscount)
	assert.Equal(t, Money(1500), q.Properties[2].MultiDiscount)
}

func TestQuoteOrder_EmptyPropertyNotCounted(t *testing.T) {
	q := QuoteOrder([]model.ServiceSelection{photos(20), {}, photos(20)}, 0)

	assert.Equal(t, 2, q.BillableProperties)
	assert.Equal(t, Money(1500), q.MultiDiscount)
	assert.Equal(t, Money(0), q.Properties[1].Total)
	assert.Equal(t, Money(1500), q.Properties[2].MultiDiscount)
}

func TestQuoteOrder_AllocationsSumExactly(t *testing.T) {
	sels := []model.ServiceSelection{
		photos(23),
		{FloorPlan: true, Bedrooms: 5},
		{AgentPresentedVideo: true, AgentPresentedVideoDrone: true, Bedrooms: 3},
	}

	for _, pct := range []int{0, 7, 13, 33, 100} {
		q := QuoteOrder(sels, pct)
		require.Len(t, q.Properties, 3)

		var multi, code, total Money
		for _, p := range q.Properties {
			multi += p.MultiDiscount
			code += p.CodeDiscount
			total += p.Total
			assert.GreaterOrEqual(t, int64(p.Total), int64(0))
		}
		assert.Equal(t, q.MultiDiscount, multi, "pct %d", pct)
		assert.Equal(t, q.CodeDiscount, code, "pct %d", pct)
		assert.Equal(t, q.Total, total, "pct %d", pct)
		assert.Equal(t, q.Subtotal-q.MultiDiscount-q.CodeDiscount, q.Total, "pct %d", pct)
	}
}

func TestQuoteOrder_ClampsPercentage(t *testing.T) {
	q := QuoteOrder([]model.ServiceSelection{photos(20)}, 150)
	assert.Equal(t, 100, q.DiscountPercentage)
	assert.Equal(t, Money(0), q.Total)

	q = QuoteOrder([]model.ServiceSelection{photos(20)}, -10)
	assert.Equal(t, 0, q.DiscountPercentage)
	assert.Equal(t, Money(13000), q.Total)
}
