package analysis

import (
	"sort"

	"github.com/workprior/crypto-backtest/internal/model"
)

// RankByTotalReturn sorts summaries descending by total return and returns at
// most limit rows (0 = all). Equal returns break ties by symbol then strategy
// so rankings are deterministic.
func RankByTotalReturn(rows []model.PerformanceSummary, limit int) []model.PerformanceSummary {
	out := append([]model.PerformanceSummary(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalReturnPct != out[j].TotalReturnPct {
			return out[i].TotalReturnPct > out[j].TotalReturnPct
		}
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Strategy < out[j].Strategy
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// RankByWinRate sorts summaries descending by win rate with the same
// deterministic tie-break.
func RankByWinRate(rows []model.PerformanceSummary, limit int) []model.PerformanceSummary {
	out := append([]model.PerformanceSummary(nil), rows...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRatePct != out[j].WinRatePct {
			return out[i].WinRatePct > out[j].WinRatePct
		}
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Strategy < out[j].Strategy
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
