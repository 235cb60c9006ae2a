package pricing

import "github.com/velmark/vitrine-display-service/internal/domain"

// SalesThisWindow is the number of units sold since the last price
// recomputation, including any manual adjustment. The delta design avoids
// re-scanning an orders table on every tick: the counter only grows and
// the baseline snapshots it at each recomputation.
func SalesThisWindow(p *domain.Product) int64 {
	return p.SalesCount + p.ManualSalesAdjustment - p.SalesCountAtLastUpdate
}
