package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"

	"ad-decision-engine/internal/config"
	"ad-decision-engine/internal/decision"
)

// ErrNotFound is returned when a campaign, variant, or key does not exist.
var ErrNotFound = errors.New("not found")

const queryTimeout = 5 * time.Second

type Store struct {
	pool      *pgxpool.Pool
	campaigns *gocache.Cache
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	dsn := cfg.DSN()
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	ttl := cfg.CampaignTTL()
	return &Store{pool: pool, campaigns: gocache.New(ttl, 2*ttl)}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// GetCampaign loads one campaign with its ordered variants and rules.
// Results are cached briefly; the LISTEN/NOTIFY listener flushes the cache
// on data changes.
func (s *Store) GetCampaign(ctx context.Context, id string) (decision.Campaign, error) {
	if v, ok := s.campaigns.Get(id); ok {
		return v.(decision.Campaign), nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		c          decision.Campaign
		template   sql.NullString
		start, end sql.NullTime
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, status, template, ab_test_mode, start_date, end_date
		FROM campaigns
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Status, &template, (*string)(&c.ABTestMode), &start, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		return decision.Campaign{}, ErrNotFound
	}
	if err != nil {
		return decision.Campaign{}, fmt.Errorf("query campaign: %w", err)
	}
	c.Template = template.String
	if start.Valid {
		c.StartDate = start.Time
	}
	if end.Valid {
		c.EndDate = end.Time
	}

	if c.Variants, err = s.loadVariants(ctx, id); err != nil {
		return decision.Campaign{}, err
	}
	if c.Rules, err = s.loadRules(ctx, id); err != nil {
		return decision.Campaign{}, err
	}

	s.campaigns.Set(id, c, gocache.DefaultExpiration)
	return c, nil
}

func (s *Store) loadVariants(ctx context.Context, campaignID string) ([]decision.Variant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, headline, body_text, image_url, cta_text, cta_url, is_default, weight
		FROM variants
		WHERE campaign_id = $1
		ORDER BY created_at, id
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var out []decision.Variant
	for rows.Next() {
		var (
			v                                            decision.Variant
			name, headline, body, image, ctaText, ctaURL sql.NullString
			weight                                       sql.NullFloat64
		)
		if err := rows.Scan(&v.ID, &name, &headline, &body, &image, &ctaText, &ctaURL, &v.IsDefault, &weight); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		v.Name = name.String
		v.Headline = headline.String
		v.BodyText = body.String
		v.ImageURL = image.String
		v.CTAText = ctaText.String
		v.CTAURL = ctaURL.String
		v.Weight = 1.0
		if weight.Valid {
			v.Weight = weight.Float64
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) loadRules(ctx context.Context, campaignID string) ([]decision.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, variant_id, signal, operator, value, priority
		FROM rules
		WHERE campaign_id = $1
		ORDER BY priority DESC, id
	`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []decision.Rule
	for rows.Next() {
		var r decision.Rule
		if err := rows.Scan(&r.ID, &r.VariantID, &r.Signal, &r.Operator, &r.Value, &r.Priority); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InvalidateCampaigns drops all cached campaigns.
func (s *Store) InvalidateCampaigns() {
	s.campaigns.Flush()
}

func (s *Store) ListenChannel() string {
	return "campaign_data_change"
}

func (s *Store) PgxPool() *pgxpool.Pool {
	if s.pool == nil {
		panic(errors.New("pgx pool is nil"))
	}
	return s.pool
}
