package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vilo-admin/internal/models"
)

// ListTestimonials returns testimonials newest first, optionally filtered by
// status.
func (d *DB) ListTestimonials(ctx context.Context, status string) ([]models.Testimonial, error) {
	query := `
	SELECT id, name, post, entreprise, comment, rating, status, created_at
	FROM testimonials`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	var testimonials []models.Testimonial
	for rows.Next() {
		var tm models.Testimonial
		if err := rows.Scan(&tm.ID, &tm.Name, &tm.Role, &tm.Company, &tm.Comment, &tm.Rating, &tm.Status, &tm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		testimonials = append(testimonials, tm)
	}
	return testimonials, rows.Err()
}

// GetTestimonial retrieves a single testimonial by id.
func (d *DB) GetTestimonial(ctx context.Context, id int64) (models.Testimonial, error) {
	var tm models.Testimonial
	err := d.Pool.QueryRow(ctx, `
	SELECT id, name, post, entreprise, comment, rating, status, created_at
	FROM testimonials
	WHERE id = $1`, id).Scan(&tm.ID, &tm.Name, &tm.Role, &tm.Company, &tm.Comment, &tm.Rating, &tm.Status, &tm.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Testimonial{}, ErrNotFound
		}
		return models.Testimonial{}, fmt.Errorf("failed to get testimonial %d: %w", id, err)
	}
	return tm, nil
}

// UpdateTestimonialStatus sets the moderation status of a testimonial.
func (d *DB) UpdateTestimonialStatus(ctx context.Context, id int64, status string) error {
	result, err := d.Pool.Exec(ctx, `
	UPDATE testimonials
	SET status = $1, updated_at = NOW()
	WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update testimonial %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTestimonial inserts a pending testimonial and returns its id.
func (d *DB) CreateTestimonial(ctx context.Context, tm models.Testimonial) (int64, error) {
	var id int64
	err := d.Pool.QueryRow(ctx, `
	INSERT INTO testimonials (name, post, entreprise, comment, rating, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	RETURNING id`,
		tm.Name, tm.Role, tm.Company, tm.Comment, tm.Rating, tm.Status).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return id, nil
}
