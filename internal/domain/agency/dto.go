// internal/domain/agency/dto.go
package agency

import "activity-booking-service/internal/pkg/ptr"

type CreateAgencyRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Website     *string `json:"website" binding:"omitempty,url,max=500"`
	LogoURL     *string `json:"logo_url" binding:"omitempty,url,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateAgencyRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	Website     *string `json:"website" binding:"omitempty,url,max=500"`
	LogoURL     *string `json:"logo_url" binding:"omitempty,url,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// ToAgency builds the entity to store. Active unless told otherwise.
func (r *CreateAgencyRequest) ToAgency() *Agency {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &Agency{
		Name:        r.Name,
		Description: ptr.Clone(r.Description),
		Address:     ptr.Clone(r.Address),
		Phone:       ptr.Clone(r.Phone),
		Email:       ptr.Clone(r.Email),
		Website:     ptr.Clone(r.Website),
		LogoURL:     ptr.Clone(r.LogoURL),
		IsActive:    isActive,
	}
}

// Apply copies the supplied fields onto a.
func (r *UpdateAgencyRequest) Apply(a *Agency) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Description != nil {
		a.Description = ptr.Clone(r.Description)
	}
	if r.Address != nil {
		a.Address = ptr.Clone(r.Address)
	}
	if r.Phone != nil {
		a.Phone = ptr.Clone(r.Phone)
	}
	if r.Email != nil {
		a.Email = ptr.Clone(r.Email)
	}
	if r.Website != nil {
		a.Website = ptr.Clone(r.Website)
	}
	if r.LogoURL != nil {
		a.LogoURL = ptr.Clone(r.LogoURL)
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
}
