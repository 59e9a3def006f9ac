package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/ryder-manager/models"
	"github.com/lib/pq"
)

var (
	ErrCourseNotFound = errors.New("golf course not found")
	ErrTeeSetNotFound = errors.New("tee set not found")
)

// CourseRepository is the read-only golf course data provider: ratings,
// slope, par and stroke-index ranking per hole.
type CourseRepository interface {
	GetByID(ctx context.Context, id int) (*models.GolfCourse, error)
	List(ctx context.Context, limit, offset int) ([]models.GolfCourse, error)
}

type postgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(db *sql.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

func (r *postgresCourseRepository) GetByID(ctx context.Context, id int) (*models.GolfCourse, error) {
	query := `SELECT id, name, country_code, par, stroke_indexes, created_at FROM golf_courses WHERE id = $1`
	var c models.GolfCourse
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.CountryCode, &c.Par, pq.Array(&c.StrokeIndexes), &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan golf course: %w", err)
	}
	if err := r.loadTees(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresCourseRepository) loadTees(ctx context.Context, c *models.GolfCourse) error {
	query := `SELECT id, course_id, category, gender, course_rating, slope_rating FROM tee_sets WHERE course_id = $1 ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query, c.ID)
	if err != nil {
		return fmt.Errorf("failed to load tee sets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.TeeSet
		if err := rows.Scan(&t.ID, &t.CourseID, &t.Category, &t.Gender, &t.CourseRating, &t.SlopeRating); err != nil {
			return fmt.Errorf("failed to scan tee set: %w", err)
		}
		c.Tees = append(c.Tees, t)
	}
	return rows.Err()
}

func (r *postgresCourseRepository) List(ctx context.Context, limit, offset int) ([]models.GolfCourse, error) {
	query := `SELECT id, name, country_code, par, stroke_indexes, created_at FROM golf_courses ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list golf courses: %w", err)
	}
	defer rows.Close()

	var courses []models.GolfCourse
	for rows.Next() {
		var c models.GolfCourse
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryCode, &c.Par, pq.Array(&c.StrokeIndexes), &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan golf course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
