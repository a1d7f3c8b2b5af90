package features

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// partition is a contiguous index range of rows sharing one
// (store_id, product) key inside the sorted row slice.
type partition struct {
	start, end int // [start, end)
}

// sortByGroupAndDate stable-sorts rows ascending by (store_id, product, date).
// Rolling windows computed on unsorted input silently cover the wrong
// temporal neighborhood, so every rolling computation starts here.
func sortByGroupAndDate(rows []FeatureVector) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		return a.Date.Before(b.Date)
	})
}

// findPartitions walks the sorted rows once and returns the index ranges of
// each (store_id, product) group.
func findPartitions(rows []FeatureVector) []partition {
	if len(rows) == 0 {
		return nil
	}

	parts := make([]partition, 0)
	start := 0
	for i := 1; i < len(rows); i++ {
		if rows[i].StoreID != rows[start].StoreID || rows[i].Product != rows[start].Product {
			parts = append(parts, partition{start: start, end: i})
			start = i
		}
	}
	return append(parts, partition{start: start, end: len(rows)})
}

// applyRollingFeatures computes trailing mean/std of sales and trailing mean
// of waste for every configured window, per (store_id, product) partition.
// Windows expand with a minimum period of 1: the first row's rolling mean is
// the row itself. Sample std of a single-point window is undefined and is
// zero-filled afterward; that understates early-history volatility but is
// the contract downstream models were trained against.
//
// Partitions are independent, so they are fanned out across goroutines; each
// goroutine only writes its own index range of the sorted slice.
func applyRollingFeatures(rows []FeatureVector, windows []int, workers int) error {
	sortByGroupAndDate(rows)

	parts := findPartitions(rows)
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, part := range parts {
		part := part
		g.Go(func() error {
			rollPartition(rows[part.start:part.end], windows)
			return nil
		})
	}
	return g.Wait()
}

// rollPartition fills Rolling for each row of one time-ordered partition.
func rollPartition(rows []FeatureVector, windows []int) {
	for i := range rows {
		rows[i].Rolling = make(map[int]RollingStats, len(windows))
		for _, w := range windows {
			lo := i - w + 1
			if lo < 0 {
				lo = 0
			}

			stats := RollingStats{
				SalesMean: trailingMean(rows[lo:i+1], func(v *FeatureVector) float64 { return v.Sales }),
				WasteMean: trailingMean(rows[lo:i+1], func(v *FeatureVector) float64 { return v.Waste }),
			}
			// Sample std needs at least two observations; cold-start rows
			// get the deliberate zero fill.
			if std, ok := trailingSampleStd(rows[lo:i+1], func(v *FeatureVector) float64 { return v.Sales }); ok {
				stats.SalesStd = std
			}
			rows[i].Rolling[w] = stats
		}
	}
}

func trailingMean(window []FeatureVector, value func(*FeatureVector) float64) float64 {
	sum := 0.0
	for i := range window {
		sum += value(&window[i])
	}
	return sum / float64(len(window))
}

func trailingSampleStd(window []FeatureVector, value func(*FeatureVector) float64) (float64, bool) {
	n := len(window)
	if n < 2 {
		return 0, false
	}

	mean := trailingMean(window, value)
	ss := 0.0
	for i := range window {
		d := value(&window[i]) - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1)), true
}
