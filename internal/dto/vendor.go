package dto

import "github.com/khalidalhothifi/expense-manager/internal/core/domain"

// CreateVendorRequest defines the data needed to register a vendor.
type CreateVendorRequest struct {
	Name string `json:"name" binding:"required"`
}

// VendorResponse defines the data returned for a vendor.
type VendorResponse struct {
	VendorID string `json:"id"`
	Name     string `json:"name"`
}

// ToVendorResponse converts a domain.Vendor to VendorResponse DTO.
func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{VendorID: v.VendorID, Name: v.Name}
}

// ToListVendorResponse converts a slice of domain.Vendor to VendorResponse DTOs.
func ToListVendorResponse(vendors []domain.Vendor) []VendorResponse {
	res := make([]VendorResponse, len(vendors))
	for i, v := range vendors {
		res[i] = ToVendorResponse(&v)
	}
	return res
}
