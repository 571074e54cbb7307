package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khalidalhothifi/expense-manager/internal/apperrors"
	"github.com/khalidalhothifi/expense-manager/internal/core/domain"
	portsrepo "github.com/khalidalhothifi/expense-manager/internal/core/ports/repositories"
	portssvc "github.com/khalidalhothifi/expense-manager/internal/core/ports/services"
	"github.com/khalidalhothifi/expense-manager/internal/dto"
	"github.com/khalidalhothifi/expense-manager/internal/middleware"
)

type vendorService struct {
	vendorRepo portsrepo.VendorRepositoryFacade
}

// NewVendorService creates the vendor service.
func NewVendorService(vendorRepo portsrepo.VendorRepositoryFacade) portssvc.VendorSvcFacade {
	return &vendorService{vendorRepo: vendorRepo}
}

var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

// ListVendors retrieves all vendors, name ascending.
func (s *vendorService) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	return s.vendorRepo.ListVendors(ctx)
}

// CreateVendor registers a new vendor.
func (s *vendorService) CreateVendor(ctx context.Context, req dto.CreateVendorRequest, creatorID string) (*domain.Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if existing, err := s.vendorRepo.FindVendorByName(ctx, name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: vendor %q", apperrors.ErrDuplicate, name)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	vendor := domain.Vendor{
		VendorID: "vendor-" + uuid.NewString(),
		Name:     name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// EnsureVendor registers the vendor name if it is not known yet. The match
// is case-insensitive so "Acme" and "acme" stay one vendor.
func (s *vendorService) EnsureVendor(ctx context.Context, name string, creatorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	_, err := s.vendorRepo.FindVendorByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if _, err := s.CreateVendor(ctx, dto.CreateVendorRequest{Name: name}, creatorID); err != nil {
		// A concurrent submission may have registered the same name.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil
		}
		logger.Warn("failed to auto-register vendor", "vendor", name, "error", err)
		return err
	}
	logger.Info("vendor auto-registered", "vendor", name)
	return nil
}
