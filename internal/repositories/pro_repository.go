package repositories

import (
	"context"
	"database/sql"

	"cleanlyBack/internal/models"
)

type ProRepository struct {
	DB *sql.DB
}

const proColumns = `
	p.id, p.name, p.active, p.hourly_rate, p.rating, p.response_rate,
	p.completeness, p.service_radius_km, p.latitude, p.longitude,
	p.soft_banned, p.hard_banned, p.badges, p.created_at, p.updated_at
`

func scanPro(scanner interface{ Scan(...interface{}) error }) (models.ProProfile, error) {
	var p models.ProProfile
	var badges string
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Active, &p.HourlyRate, &p.Rating, &p.ResponseRate,
		&p.Completeness, &p.ServiceRadiusKm, &p.Latitude, &p.Longitude,
		&p.SoftBanned, &p.HardBanned, &badges, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.ProProfile{}, err
	}
	p.Badges = splitList(badges)
	return p, nil
}

// GetByID returns one pro with their offered services.
func (r *ProRepository) GetByID(ctx context.Context, id int) (models.ProProfile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+proColumns+` FROM pros p WHERE p.id = ?`, id)
	p, err := scanPro(row)
	if err == sql.ErrNoRows {
		return models.ProProfile{}, models.ErrProNotFound
	}
	if err != nil {
		return models.ProProfile{}, err
	}
	p.Services, err = r.servicesFor(ctx, p.ID)
	return p, err
}

// FindEligibleByServices returns active, not hard-banned pros offering
// at least one of the requested services. Ordered by id so downstream
// ranking ties are deterministic.
func (r *ProRepository) FindEligibleByServices(ctx context.Context, services []string) ([]models.ProProfile, error) {
	if len(services) == 0 {
		return nil, models.ErrInvalidArgument
	}

	args := make([]interface{}, 0, len(services))
	for _, s := range services {
		args = append(args, s)
	}

	query := `
		SELECT DISTINCT ` + proColumns + `
		FROM pros p
		JOIN pro_services s ON s.pro_id = p.id
		WHERE p.active = 1
		  AND p.hard_banned = 0
		  AND s.service IN (` + placeholders(len(services)) + `)
		ORDER BY p.id
	`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pros []models.ProProfile
	for rows.Next() {
		p, err := scanPro(rows)
		if err != nil {
			return nil, err
		}
		pros = append(pros, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range pros {
		pros[i].Services, err = r.servicesFor(ctx, pros[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return pros, nil
}

func (r *ProRepository) servicesFor(ctx context.Context, proID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT service FROM pro_services WHERE pro_id = ? ORDER BY service`, proID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// UpdateBadges rewrites the pro's badge set after a health recompute.
func (r *ProRepository) UpdateBadges(ctx context.Context, proID int, badges []string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE pros SET badges = ?, updated_at = NOW() WHERE id = ?`,
		joinList(badges), proID)
	return err
}

// SetBanFlags is the admin soft/hard ban switch.
func (r *ProRepository) SetBanFlags(ctx context.Context, proID int, soft, hard bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE pros SET soft_banned = ?, hard_banned = ?, updated_at = NOW() WHERE id = ?`,
		soft, hard, proID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrProNotFound
	}
	return nil
}
