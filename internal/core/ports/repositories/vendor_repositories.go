package repositories

import (
	"context"

	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
)

// VendorRepositoryFacade defines storage operations for vendor records.
type VendorRepositoryFacade interface {
	// FindVendorByName retrieves a vendor by case-insensitive name match.
	FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error)

	// ListVendors retrieves all non-deleted vendors, name ascending.
	ListVendors(ctx context.Context) ([]domain.Vendor, error)

	// SaveVendor persists a new vendor.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error
}
