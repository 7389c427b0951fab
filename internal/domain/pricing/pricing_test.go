package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_Document(t *testing.T) {
	same := Quote(ParcelQuote{Kind: KindDocument, SameDistrict: true})
	assert.Equal(t, MoneyFromTaka(60), same.Base)
	assert.Equal(t, Money(0), same.Extra)
	assert.Equal(t, MoneyFromTaka(60), same.Total)
	assert.Contains(t, same.Explanation, "within the district")

	cross := Quote(ParcelQuote{Kind: KindDocument, SameDistrict: false})
	assert.Equal(t, MoneyFromTaka(80), cross.Total)
	assert.Contains(t, cross.Explanation, "outside the district")

	// Weight is ignored for documents.
	heavy := Quote(ParcelQuote{Kind: KindDocument, WeightKg: 25, SameDistrict: true})
	assert.Equal(t, same, heavy)
}

func TestQuote_NonDocument_BaseTier(t *testing.T) {
	// Any weight up to 3kg prices at the base tier regardless of weight.
	for _, w := range []float64{0, 0.5, 1, 2.9, 3} {
		same := Quote(ParcelQuote{Kind: KindNonDocument, WeightKg: w, SameDistrict: true})
		assert.Equal(t, MoneyFromTaka(110), same.Total, "weight %.1f same district", w)
		assert.Equal(t, Money(0), same.Extra)

		cross := Quote(ParcelQuote{Kind: KindNonDocument, WeightKg: w, SameDistrict: false})
		assert.Equal(t, MoneyFromTaka(150), cross.Total, "weight %.1f cross district", w)
	}
}

func TestQuote_NonDocument_Overweight(t *testing.T) {
	tests := []struct {
		name         string
		weight       float64
		sameDistrict bool
		base         float64
		extra        float64
	}{
		{"5kg cross district", 5, false, 150, 2*40 + 40},
		{"5kg same district", 5, true, 110, 2 * 40},
		{"3.5kg same district", 3.5, true, 110, 0.5 * 40},
		{"10kg cross district", 10, false, 150, 7*40 + 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quote(ParcelQuote{Kind: KindNonDocument, WeightKg: tt.weight, SameDistrict: tt.sameDistrict})
			assert.Equal(t, MoneyFromTaka(tt.base), got.Base)
			assert.Equal(t, MoneyFromTaka(tt.extra), got.Extra)
			assert.Equal(t, MoneyFromTaka(tt.base+tt.extra), got.Total)
			require.Equal(t, got.Total, got.Base+got.Extra, "total must equal base plus extra")
		})
	}
}

func TestQuote_SpecScenarios(t *testing.T) {
	doc := Quote(ParcelQuote{Kind: KindDocument, SameDistrict: true})
	assert.Equal(t, CostBreakdown{Base: 6000, Extra: 0, Total: 6000, Explanation: doc.Explanation}, doc)

	atLimit := Quote(ParcelQuote{Kind: KindNonDocument, WeightKg: 3, SameDistrict: false})
	assert.Equal(t, Money(15000), atLimit.Base)
	assert.Equal(t, Money(0), atLimit.Extra)
	assert.Equal(t, Money(15000), atLimit.Total)

	over := Quote(ParcelQuote{Kind: KindNonDocument, WeightKg: 5, SameDistrict: false})
	assert.Equal(t, Money(15000), over.Base)
	assert.Equal(t, Money(12000), over.Extra)
	assert.Equal(t, Money(27000), over.Total)
}

func TestQuote_Idempotent(t *testing.T) {
	in := ParcelQuote{Kind: KindNonDocument, WeightKg: 7.3, SameDistrict: false}
	first := Quote(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Quote(in))
	}
}

func TestQuote_SameDistrictNeverCostsMore(t *testing.T) {
	for _, kind := range []Kind{KindDocument, KindNonDocument} {
		for w := 0.0; w <= 12; w += 0.7 {
			same := Quote(ParcelQuote{Kind: kind, WeightKg: w, SameDistrict: true})
			cross := Quote(ParcelQuote{Kind: kind, WeightKg: w, SameDistrict: false})
			assert.LessOrEqual(t, same.Total, cross.Total, "kind %s weight %.1f", kind, w)
		}
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, Money(11050), MoneyFromTaka(110.5))
	assert.Equal(t, Money(11000), MoneyFromTaka(110.004))
	assert.InDelta(t, 110.5, Money(11050).Taka(), 1e-9)
	assert.Equal(t, "270.00", Money(27000).String())
}
