package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"ad-decision-engine/internal/analytics"
)

// InsertImpression records one served impression with its signal mapping.
func (s *Store) InsertImpression(ctx context.Context, imp analytics.Impression) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO impressions (id, campaign_id, variant_id, signals, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), imp.CampaignID, imp.VariantID, imp.Signals, imp.IPAddress)
	if err != nil {
		return fmt.Errorf("insert impression: %w", err)
	}
	return nil
}

// InsertClick records one click-through.
func (s *Store) InsertClick(ctx context.Context, c analytics.Click) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO clicks (id, campaign_id, variant_id, ip_address)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), c.CampaignID, c.VariantID, c.IPAddress)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	return nil
}

// CampaignStats aggregates impressions and clicks for the trailing window.
func (s *Store) CampaignStats(ctx context.Context, campaignID string, days int) (analytics.CampaignStats, error) {
	if days <= 0 {
		days = 7
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats := analytics.CampaignStats{CampaignID: campaignID, Days: days}

	daily := map[string]*analytics.DailyStat{}
	variants := map[string]*analytics.VariantStat{}

	collect := func(table string, clicks bool) error {
		rows, err := s.pool.Query(ctx, fmt.Sprintf(`
			SELECT variant_id, to_char(created_at, 'YYYY-MM-DD') AS day, count(*)
			FROM %s
			WHERE campaign_id = $1 AND created_at >= $2
			GROUP BY variant_id, day
		`, table), campaignID, since)
		if err != nil {
			return fmt.Errorf("query %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				variantID, day string
				n              int
			)
			if err := rows.Scan(&variantID, &day, &n); err != nil {
				return fmt.Errorf("scan %s: %w", table, err)
			}
			d, ok := daily[day]
			if !ok {
				d = &analytics.DailyStat{Date: day}
				daily[day] = d
			}
			v, ok := variants[variantID]
			if !ok {
				v = &analytics.VariantStat{VariantID: variantID}
				variants[variantID] = v
			}
			if clicks {
				d.Clicks += n
				v.Clicks += n
				stats.TotalClicks += n
			} else {
				d.Impressions += n
				v.Impressions += n
				stats.TotalImpressions += n
			}
		}
		return rows.Err()
	}

	if err := collect("impressions", false); err != nil {
		return analytics.CampaignStats{}, err
	}
	if err := collect("clicks", true); err != nil {
		return analytics.CampaignStats{}, err
	}

	stats.CTR = analytics.RatePercent(stats.TotalClicks, stats.TotalImpressions)
	for _, d := range daily {
		stats.DailyBreakdown = append(stats.DailyBreakdown, *d)
	}
	sort.Slice(stats.DailyBreakdown, func(i, j int) bool {
		return stats.DailyBreakdown[i].Date < stats.DailyBreakdown[j].Date
	})
	for _, v := range variants {
		v.CTR = analytics.RatePercent(v.Clicks, v.Impressions)
		stats.VariantBreakdown = append(stats.VariantBreakdown, *v)
	}
	sort.Slice(stats.VariantBreakdown, func(i, j int) bool {
		return stats.VariantBreakdown[i].VariantID < stats.VariantBreakdown[j].VariantID
	})

	return stats, nil
}
