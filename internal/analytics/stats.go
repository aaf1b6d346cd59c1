package analytics

// DailyStat is one day's impression/click totals.
type DailyStat struct {
	Date        string `json:"date"`
	Impressions int    `json:"impressions"`
	Clicks      int    `json:"clicks"`
}

// VariantStat is one variant's totals over the query window.
type VariantStat struct {
	VariantID   string  `json:"variant_id"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// CampaignStats is the aggregated report for one campaign.
type CampaignStats struct {
	CampaignID       string        `json:"campaign_id"`
	Days             int           `json:"days"`
	TotalImpressions int           `json:"total_impressions"`
	TotalClicks      int           `json:"total_clicks"`
	CTR              float64       `json:"ctr"`
	DailyBreakdown   []DailyStat   `json:"daily_breakdown"`
	VariantBreakdown []VariantStat `json:"variant_breakdown"`
}

// RatePercent is clicks/impressions as a percentage rounded to 2dp.
func RatePercent(clicks, impressions int) float64 {
	if impressions <= 0 {
		return 0
	}
	pct := float64(clicks) / float64(impressions) * 100
	return float64(int(pct*100+0.5)) / 100
}
