package render

import (
	"github.com/montanaflynn/stats"
	"github.com/talkincode/stockbook/internal/domain"
)

// Summary is the strip above the list, computed over the whole rendered collection.
type Summary struct {
	Count        int
	SoldCount    int
	Invested     string
	Realised     string
	MedianBought string
}

// Summarize aggregates purchase and sale prices. Realised profit only counts
// sold records that carry a sale price.
func Summarize(products []domain.Product) Summary {
	s := Summary{Count: len(products)}
	if len(products) == 0 {
		return s
	}

	bought := make(stats.Float64Data, 0, len(products))
	var profit stats.Float64Data
	for _, p := range products {
		bought = append(bought, p.PriceBought)
		if p.IsSold {
			s.SoldCount++
			if p.PriceSold != nil {
				profit = append(profit, *p.PriceSold-p.PriceBought)
			}
		}
	}

	if total, err := bought.Sum(); err == nil {
		s.Invested = formatPrice(round2(total))
	}
	if median, err := bought.Median(); err == nil {
		s.MedianBought = formatPrice(round2(median))
	}
	s.Realised = formatPrice(0)
	if len(profit) > 0 {
		if total, err := profit.Sum(); err == nil {
			s.Realised = formatPrice(round2(total))
		}
	}
	return s
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
