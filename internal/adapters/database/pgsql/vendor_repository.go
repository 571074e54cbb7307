package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
)

type VendorRepository struct {
	db *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{db: db}
}

var _ portsrepo.VendorRepositoryFacade = (*VendorRepository)(nil)

func (r *VendorRepository) FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error) {
	query := `
        SELECT vendor_id, name, created_at, created_by, last_updated_at, last_updated_by
        FROM vendors
        WHERE LOWER(name) = LOWER($1) AND deleted_at IS NULL;
    `
	var vendor domain.Vendor
	err := r.db.QueryRow(ctx, query, name).Scan(
		&vendor.VendorID,
		&vendor.Name,
		&vendor.CreatedAt,
		&vendor.CreatedBy,
		&vendor.LastUpdatedAt,
		&vendor.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: vendor %q", apperrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find vendor by name: %w", err)
	}
	return &vendor, nil
}

func (r *VendorRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	query := `
        SELECT vendor_id, name, created_at, created_by, last_updated_at, last_updated_by
        FROM vendors
        WHERE deleted_at IS NULL
        ORDER BY name ASC;
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var vendor domain.Vendor
		err := rows.Scan(
			&vendor.VendorID,
			&vendor.Name,
			&vendor.CreatedAt,
			&vendor.CreatedBy,
			&vendor.LastUpdatedAt,
			&vendor.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, vendor)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating vendor rows: %w", rows.Err())
	}
	return vendors, nil
}

func (r *VendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `
        INSERT INTO vendors (vendor_id, name, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (name) DO NOTHING;
    `
	_, err := r.db.Exec(ctx, query,
		vendor.VendorID,
		vendor.Name,
		vendor.CreatedAt,
		vendor.CreatedBy,
		vendor.LastUpdatedAt,
		vendor.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}
	return nil
}
