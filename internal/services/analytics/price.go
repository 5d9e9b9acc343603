package analytics

import (
	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

// ComparePrices computes co-movement and divergence statistics between two
// close-price series over the date overlap where both closes are present and
// positive. PearsonR is the standard coefficient over aligned closes; the
// percentage difference (a-b)/b yields MeanPctDifference and, as its sample
// standard deviation, TrackingError.
//
// An empty overlap reports OverlapDays zero with every statistic undefined,
// which is distinguishable from a legitimate zero tracking error. A single
// overlapping day defines the mean difference but leaves PearsonR and
// TrackingError undefined. Malformed input returns a *SeriesError.
func ComparePrices(a, b models.AssetSeries) (models.PriceComparisonResult, error) {
	if err := ValidateSeries(a); err != nil {
		return models.PriceComparisonResult{}, err
	}
	if err := ValidateSeries(b); err != nil {
		return models.PriceComparisonResult{}, err
	}

	res := models.PriceComparisonResult{
		AssetID:           a.AssetID,
		PearsonR:          models.UndefinedStat(),
		TrackingError:     models.UndefinedStat(),
		MeanPctDifference: models.UndefinedStat(),
	}

	aByDate := pointsByDate(a)
	bByDate := pointsByDate(b)
	var closesA, closesB, pctDiff []float64
	for _, d := range overlapDates(a, b) {
		ca := aByDate[util.Day(d)].Close
		cb := bByDate[util.Day(d)].Close
		if ca <= 0 || cb <= 0 {
			continue
		}
		closesA = append(closesA, ca)
		closesB = append(closesB, cb)
		pctDiff = append(pctDiff, (ca-cb)/cb)
	}

	res.OverlapDays = len(pctDiff)
	if res.OverlapDays == 0 {
		return res, nil
	}

	res.PearsonR = pearson(closesA, closesB)
	mu := mean(pctDiff)
	res.MeanPctDifference = models.DefinedStat(mu)
	if res.OverlapDays >= 2 {
		res.TrackingError = models.DefinedStat(sampleStddev(pctDiff, mu))
	}
	return res, nil
}
