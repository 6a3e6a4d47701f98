package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"talentbridge/listing-service/internal/model"
)

// kindTables maps a Kind onto the tables and columns backing it. The two
// posting kinds live in separate tables with separate favorites tables,
// mirroring the upstream schema.
type kindTables struct {
	posts       string // postings table
	typeCol     string // category column (job_type / internship_type)
	favorites   string // favorites relation table
	favPostCol  string // posting fk column in the favorites table
	hasDuration bool
}

var tablesByKind = map[model.Kind]kindTables{
	model.KindJob: {
		posts:      "jobs",
		typeCol:    "job_type",
		favorites:  "job_favorites",
		favPostCol: "job_id",
	},
	model.KindInternship: {
		posts:       "internships",
		typeCol:     "internship_type",
		favorites:   "internship_favorites",
		favPostCol:  "internship_id",
		hasDuration: true,
	},
}

// Postgres implements Gateway over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Gateway backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// FetchActive returns active postings of the given kind, newest first,
// with the company relation denormalized in.
func (g *Postgres) FetchActive(ctx context.Context, kind model.Kind) ([]model.RawRecord, error) {
	kt, ok := tablesByKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	durationExpr := "0"
	if kt.hasDuration {
		durationExpr = "COALESCE(p.duration, 0)"
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, COALESCE(p.description, ''),
		       COALESCE(p.%s, ''), COALESCE(p.location::text, ''),
		       COALESCE(p.amount, 0), COALESCE(p.min_amount, 0), COALESCE(p.max_amount, 0),
		       COALESCE(p.pay_rate, ''), COALESCE(p.requirements::text, ''),
		       COALESCE(p.experience_level, ''), p.status, p.created_at,
		       %s,
		       COALESCE(c.id::text, ''), COALESCE(c.name, ''), COALESCE(c.logo_url, '')
		FROM %s p
		LEFT JOIN companies c ON c.id = p.company_id
		WHERE p.status = 'active'
		ORDER BY p.created_at DESC`,
		kt.typeCol, durationExpr, kt.posts)

	rows, err := g.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch active %s: %w", kind, err)
	}
	defer rows.Close()

	records := make([]model.RawRecord, 0)
	for rows.Next() {
		var (
			r                              model.RawRecord
			locationText, requirementsText string
			statusText                     string
			companyID, companyName         string
			companyLogo                    string
		)
		if err := rows.Scan(
			&r.ID, &r.Title, &r.Description,
			&r.Category, &locationText,
			&r.Amount, &r.MinAmount, &r.MaxAmount,
			&r.PayRate, &requirementsText,
			&r.ExperienceLevel, &statusText, &r.PostedAt,
			&r.DurationMonths,
			&companyID, &companyName, &companyLogo,
		); err != nil {
			return nil, fmt.Errorf("fetch active %s scan: %w", kind, err)
		}

		r.Location = locationText
		r.Requirements = requirementsText
		if st, err := model.ParseStatus(statusText); err == nil {
			r.Status = st
		}
		if companyID != "" {
			r.Company = &model.CompanyRef{ID: companyID, Name: companyName, LogoURL: companyLogo}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FetchFavoriteRelations returns the saved posting ids for a user and kind.
func (g *Postgres) FetchFavoriteRelations(ctx context.Context, userID string, kind model.Kind) ([]string, error) {
	kt, ok := tablesByKind[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	rows, err := g.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1`, kt.favPostCol, kt.favorites),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch %s favorites: %w", kind, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("fetch %s favorites scan: %w", kind, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertFavoriteRelation persists a saved link, skipping the insert when
// the relation already exists so a racing duplicate insert stays benign.
func (g *Postgres) InsertFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) error {
	kt, ok := tablesByKind[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	_, err := g.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, user_id, %s)
		 SELECT $1, $2, $3
		 WHERE NOT EXISTS (
		   SELECT 1 FROM %s WHERE user_id = $2 AND %s = $3
		 )`, kt.favorites, kt.favPostCol, kt.favorites, kt.favPostCol),
		uuid.New().String(), userID, opportunityID,
	)
	if err != nil {
		return fmt.Errorf("insert %s favorite: %w", kind, err)
	}
	return nil
}

// DeleteFavoriteRelation removes a saved link if present.
func (g *Postgres) DeleteFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) error {
	kt, ok := tablesByKind[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	_, err := g.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND %s = $2`, kt.favorites, kt.favPostCol),
		userID, opportunityID,
	)
	if err != nil {
		return fmt.Errorf("delete %s favorite: %w", kind, err)
	}
	return nil
}

// ExistsFavoriteRelation reports whether the saved link is present.
func (g *Postgres) ExistsFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) (bool, error) {
	kt, ok := tablesByKind[kind]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var exists bool
	err := g.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2)`,
			kt.favorites, kt.favPostCol),
		userID, opportunityID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s favorite: %w", kind, err)
	}
	return exists, nil
}
