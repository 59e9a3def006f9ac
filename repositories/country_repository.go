package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
)

var ErrCountryNotFound = errors.New("country not found")

type CountryRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Country, error)
	ListActive(ctx context.Context) ([]models.Country, error)
	// AreAdjacent reports whether two countries share a border. The relation
	// is stored symmetrically, one row per unordered pair.
	AreAdjacent(ctx context.Context, codeA, codeB string) (bool, error)
}

type postgresCountryRepository struct {
	db *sql.DB
}

func NewPostgresCountryRepository(db *sql.DB) CountryRepository {
	return &postgresCountryRepository{db: db}
}

func (r *postgresCountryRepository) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	query := `SELECT code, name_en, name_es, active FROM countries WHERE code = $1`
	var c models.Country
	err := r.db.QueryRowContext(ctx, query, code).Scan(&c.Code, &c.NameEN, &c.NameES, &c.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCountryNotFound
		}
		return nil, fmt.Errorf("failed to scan country: %w", err)
	}
	return &c, nil
}

func (r *postgresCountryRepository) ListActive(ctx context.Context) ([]models.Country, error) {
	query := `SELECT code, name_en, name_es, active FROM countries WHERE active ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.Code, &c.NameEN, &c.NameES, &c.Active); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (r *postgresCountryRepository) AreAdjacent(ctx context.Context, codeA, codeB string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM country_adjacency
			WHERE (code_a = $1 AND code_b = $2) OR (code_a = $2 AND code_b = $1)
		)`
	var adjacent bool
	if err := r.db.QueryRowContext(ctx, query, codeA, codeB).Scan(&adjacent); err != nil {
		return false, fmt.Errorf("failed to check country adjacency: %w", err)
	}
	return adjacent, nil
}
