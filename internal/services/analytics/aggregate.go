package analytics

import (
	"sort"

	"PerpParity/internal/domain/models"
	"PerpParity/pkg/util"
)

// MeanOverlapVolumes computes each side's mean daily notional volume over
// the two series' date overlap, the volume basis the per-type rollups sum.
// Both means are undefined when the overlap is empty.
func MeanOverlapVolumes(a, b models.AssetSeries) (defi, tradfi models.Stat, days int) {
	aByDate := pointsByDate(a)
	bByDate := pointsByDate(b)
	var av, bv []float64
	for _, d := range overlapDates(a, b) {
		av = append(av, aByDate[util.Day(d)].NotionalVolume)
		bv = append(bv, bByDate[util.Day(d)].NotionalVolume)
	}
	if len(av) == 0 {
		return models.UndefinedStat(), models.UndefinedStat(), 0
	}
	return models.DefinedStat(mean(av)), models.DefinedStat(mean(bv)), len(av)
}

// AggregateByType folds per-asset analyses into one summary row per
// asset-type tag. The tag is the caller-supplied grouping key, stable and
// case-sensitive; the engine never interprets it. Sums and means only cover
// assets whose underlying statistic is defined, so undefined rows are
// skipped rather than counted as zero. AnomalousDays counts flagged
// DeFi-side days across the group.
//
// Output order is deterministic: TotalDeFiVolume descending, ties by
// AssetType ascending.
func AggregateByType(analyses []models.AssetAnalysis) []models.AssetTypeSummary {
	type acc struct {
		count       int
		defiVol     float64
		tradfiVol   float64
		corrSum     float64
		corrCount   int
		overlapSum  int
		overlapCnt  int
		anomalyDays int
	}
	groups := make(map[string]*acc)
	for _, a := range analyses {
		g := groups[a.AssetType]
		if g == nil {
			g = &acc{}
			groups[a.AssetType] = g
		}
		g.count++
		if v, ok := a.MeanDeFiVolume.Float(); ok {
			g.defiVol += v
		}
		if v, ok := a.MeanTradFiVolume.Float(); ok {
			g.tradfiVol += v
		}
		if r, ok := a.Price.PearsonR.Float(); ok {
			g.corrSum += r
			g.corrCount++
		}
		if a.OverlapDays > 0 {
			g.overlapSum += a.OverlapDays
			g.overlapCnt++
		}
		g.anomalyDays += a.FlaggedCount()
	}

	out := make([]models.AssetTypeSummary, 0, len(groups))
	for typ, g := range groups {
		s := models.AssetTypeSummary{
			AssetType:         typ,
			AssetCount:        g.count,
			TotalDeFiVolume:   g.defiVol,
			TotalTradFiVolume: g.tradfiVol,
			MeanCorrelation:   models.UndefinedStat(),
			MeanOverlapDays:   models.UndefinedStat(),
			AnomalousDays:     g.anomalyDays,
		}
		if g.corrCount > 0 {
			s.MeanCorrelation = models.DefinedStat(g.corrSum / float64(g.corrCount))
		}
		if g.overlapCnt > 0 {
			s.MeanOverlapDays = models.DefinedStat(float64(g.overlapSum) / float64(g.overlapCnt))
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalDeFiVolume != out[j].TotalDeFiVolume {
			return out[i].TotalDeFiVolume > out[j].TotalDeFiVolume
		}
		return out[i].AssetType < out[j].AssetType
	})
	return out
}
