package pricing

// Package pricing computes deterministic delivery costs for a single parcel
// description. It is pure: no I/O, no side effects, and identical inputs
// always produce identical breakdowns. Input validation (negative weight,
// missing weight for non-documents) is the booking layer's job; Quote is
// total over sanitized input.

import (
	"fmt"
	"math"
)

// Kind distinguishes the two parcel categories the tariff knows about.
type Kind string

const (
	KindDocument    Kind = "document"
	KindNonDocument Kind = "non-document"
)

// Money is an amount in the currency's minor unit (poisha; 100 per taka).
// Integer minor units keep breakdown components exact under addition.
type Money int64

// MoneyFromTaka converts a taka amount to Money, rounding half away from
// zero to the minor-unit precision.
func MoneyFromTaka(t float64) Money {
	return Money(math.Round(t * 100))
}

// Taka returns the amount in whole-currency units.
func (m Money) Taka() float64 { return float64(m) / 100 }

// String renders the amount with two decimal places, e.g. "270.00".
func (m Money) String() string { return fmt.Sprintf("%.2f", m.Taka()) }

// Tariff constants, in taka.
const (
	documentSameDistrict  = 60
	documentCrossDistrict = 80
	parcelSameDistrict    = 110
	parcelCrossDistrict   = 150
	includedWeightKg      = 3
	perExtraKg            = 40
	crossDistrictSurplus  = 40
)

// ParcelQuote describes a parcel for pricing. WeightKg is only meaningful
// when Kind is KindNonDocument; for documents it is ignored.
type ParcelQuote struct {
	Kind         Kind
	WeightKg     float64
	SameDistrict bool
}

// CostBreakdown is the immutable result of pricing a parcel. Total is always
// Base + Extra, exact to the minor unit. Explanation names the tariff branch
// that applied and its numeric components; it is part of the contract (shown
// to the customer and kept for auditability), not cosmetic.
type CostBreakdown struct {
	Base        Money
	Extra       Money
	Total       Money
	Explanation string
}

// Quote prices a parcel.
//
// Documents cost a flat 60 within a district and 80 across districts.
// Non-documents up to 3kg cost 110/150; above 3kg each extra kilogram adds
// 40, and cross-district delivery adds a flat 40 surcharge on top.
func Quote(q ParcelQuote) CostBreakdown {
	if q.Kind == KindDocument {
		return quoteDocument(q.SameDistrict)
	}
	return quoteNonDocument(q.WeightKg, q.SameDistrict)
}

func quoteDocument(sameDistrict bool) CostBreakdown {
	base := MoneyFromTaka(documentCrossDistrict)
	zone := "outside"
	if sameDistrict {
		base = MoneyFromTaka(documentSameDistrict)
		zone = "within"
	}
	return CostBreakdown{
		Base:        base,
		Extra:       0,
		Total:       base,
		Explanation: fmt.Sprintf("Document delivery %s the district.", zone),
	}
}

func quoteNonDocument(weightKg float64, sameDistrict bool) CostBreakdown {
	base := MoneyFromTaka(parcelCrossDistrict)
	zone := "outside"
	if sameDistrict {
		base = MoneyFromTaka(parcelSameDistrict)
		zone = "within"
	}

	if weightKg <= includedWeightKg {
		return CostBreakdown{
			Base:        base,
			Extra:       0,
			Total:       base,
			Explanation: fmt.Sprintf("Non-document up to 3kg %s the district.", zone),
		}
	}

	extraKg := weightKg - includedWeightKg
	perKgCharge := MoneyFromTaka(extraKg * perExtraKg)
	var districtExtra Money
	if !sameDistrict {
		districtExtra = MoneyFromTaka(crossDistrictSurplus)
	}
	extra := perKgCharge + districtExtra

	explanation := fmt.Sprintf(
		"Non-document over 3kg %s the district. Extra charge: 40 x %.1fkg = %s.",
		zone, extraKg, perKgCharge,
	)
	if districtExtra > 0 {
		explanation += " + 40 surcharge for outside district delivery."
	}

	return CostBreakdown{
		Base:        base,
		Extra:       extra,
		Total:       base + extra,
		Explanation: explanation,
	}
}
