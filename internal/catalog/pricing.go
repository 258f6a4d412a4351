package catalog

import "context"

// Billing periods understood by the pricing tiers.
const (
	PeriodMonth       = "month"
	PeriodThreeMonth  = "3month"
	PeriodSixMonth    = "6month"
	PeriodTwelveMonth = "12month"
)

var planMultipliers = map[string]float64{
	PeriodThreeMonth:  2.7,
	PeriodSixMonth:    5,
	PeriodTwelveMonth: 9,
}

// PlanPeriods lists the advertised periods in display order.
var PlanPeriods = []string{PeriodMonth, PeriodThreeMonth, PeriodSixMonth, PeriodTwelveMonth}

// PlanPrice derives a period price from the monthly base. Unknown periods return base.
func PlanPrice(base float64, period string) float64 {
	if multiplier, ok := planMultipliers[period]; ok {
		return roundCents(base * multiplier)
	}
	return roundCents(base)
}

// PlanQuote is the advisory price of one period.
type PlanQuote struct {
	Period string
	Price  float64
}

// ProductPricing quotes every advertised period for a product.
func (s *Service) ProductPricing(ctx context.Context, productID string) ([]PlanQuote, error) {
	product, errProduct := s.GetProduct(ctx, productID)
	if errProduct != nil {
		return nil, errProduct
	}
	quotes := make([]PlanQuote, 0, len(PlanPeriods))
	for _, period := range PlanPeriods {
		quotes = append(quotes, PlanQuote{Period: period, Price: PlanPrice(product.Price, period)})
	}
	return quotes, nil
}
