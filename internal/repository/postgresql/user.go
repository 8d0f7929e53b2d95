package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userSelect = `
	SELECT u.id, u.name, u.email, u.work_site_id, u.active, u.created_at, u.updated_at,
		   COALESCE(array_agg(r.role ORDER BY r.position, r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles r ON r.user_id = u.id
`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u     user.User
		roles []string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.WorkSiteID, &u.Active, &u.CreatedAt, &u.UpdatedAt, &roles)
	if err != nil {
		return user.User{}, err
	}
	u.Roles = make([]user.Role, len(roles))
	for i, r := range roles {
		u.Roles[i] = user.Role(r)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := userSelect + `
		WHERE u.id = $1
		GROUP BY u.id
	`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListActive implements user.UserRepository.
func (r *userRepositoryImpl) ListActive(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := userSelect + `
		WHERE u.active
		GROUP BY u.id
		ORDER BY u.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type workSiteRepositoryImpl struct {
	db *database.DB
}

func NewWorkSiteRepository(db *database.DB) user.WorkSiteRepository {
	return &workSiteRepositoryImpl{db: db}
}

// GetByID implements user.WorkSiteRepository.
func (r *workSiteRepositoryImpl) GetByID(ctx context.Context, id string) (user.WorkSite, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters
		FROM work_sites
		WHERE id = $1
	`

	var ws user.WorkSite
	err := q.QueryRow(ctx, query, id).Scan(&ws.ID, &ws.Name, &ws.Latitude, &ws.Longitude, &ws.RadiusMeters)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.WorkSite{}, user.ErrWorkSiteNotFound
		}
		return user.WorkSite{}, fmt.Errorf("failed to get work site: %w", err)
	}
	return ws, nil
}
