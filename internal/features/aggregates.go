package features

import "math"

type runningAgg struct {
	n        int
	sum      float64
	sumSq    float64
	wasteSum float64
}

func (a *runningAgg) add(sales, wastePct float64) {
	a.n++
	a.sum += sales
	a.sumSq += sales * sales
	a.wasteSum += wastePct
}

func (a *runningAgg) mean() float64 {
	return a.sum / float64(a.n)
}

func (a *runningAgg) wasteMean() float64 {
	return a.wasteSum / float64(a.n)
}

// sampleStd returns nil for single-observation keys: the statistic is
// undefined there and stays missing, mirroring what the aggregation
// produces upstream.
func (a *runningAgg) sampleStd() *float64 {
	if a.n < 2 {
		return nil
	}
	variance := (a.sumSq - a.sum*a.sum/float64(a.n)) / float64(a.n-1)
	if variance < 0 {
		variance = 0
	}
	std := math.Sqrt(variance)
	return &std
}

// applyAggregateFeatures computes lifetime per-product and per-store
// statistics over the entire input table and joins them back onto every row.
// Not windowed and not time-ordered, so it must run after the table is fully
// assembled; it is always the last feature stage.
func applyAggregateFeatures(rows []FeatureVector) {
	byProduct := make(map[string]*runningAgg)
	byStore := make(map[int]*runningAgg)

	for i := range rows {
		row := &rows[i]
		p, ok := byProduct[row.Product]
		if !ok {
			p = &runningAgg{}
			byProduct[row.Product] = p
		}
		p.add(row.Sales, row.WastePercentage)

		s, ok := byStore[row.StoreID]
		if !ok {
			s = &runningAgg{}
			byStore[row.StoreID] = s
		}
		s.add(row.Sales, row.WastePercentage)
	}

	for i := range rows {
		row := &rows[i]
		p := byProduct[row.Product]
		s := byStore[row.StoreID]
		row.Aggregate = AggregateFeatures{
			ProductSalesMean: p.mean(),
			ProductSalesStd:  p.sampleStd(),
			ProductWasteMean: p.wasteMean(),
			StoreSalesMean:   s.mean(),
			StoreWasteMean:   s.wasteMean(),
		}
	}
}
