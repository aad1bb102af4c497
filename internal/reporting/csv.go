package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders every report row as CSV string.
func RenderCSV(rows []AnomalyRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("evaluation_id,address,symbol,event,accepted,reason,")
	sb.WriteString("price_volume_ratio,liquidity_volume_ratio,score,anomaly,skipped\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%t,%s,%.6f,%.6f,%.6f,%t,%t\n",
			r.EvaluationID,
			r.Address,
			r.Symbol,
			r.Event,
			r.Accepted,
			r.Reason,
			r.PriceVolumeRatio,
			r.LiquidityVolumeRatio,
			r.Score,
			r.Anomaly,
			r.Skipped,
		))
	}

	return sb.String()
}
