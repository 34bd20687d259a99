// Package models contains domain types for techstacks-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Operation constants for technology history records.
const (
	OperationInsert = "INSERT"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// Technology represents a cataloged tool, language, or framework.
// Stored in the technologies table.
type Technology struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	VendorName  string `json:"vendor_name"`
	VendorURL   string `json:"vendor_url"`
	ProductURL  string `json:"product_url"`
	LogoURL     string `json:"logo_url"`
	Description string `json:"description"`
	Tier        string `json:"tier"`

	// SlugTitle is always derived from Name at write time; callers
	// cannot set it directly.
	SlugTitle string `json:"slug_title"`

	// Governance fields. OwnerID, CreatedBy and CreatedAt are write-once.
	// LogoApproved and IsLocked cannot be set through the update payload.
	OwnerID        string    `json:"owner_id"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LogoApproved   bool      `json:"logo_approved"`
	IsLocked       bool      `json:"is_locked"`
}

// TechnologyHistory is an immutable audit snapshot of a Technology taken
// at the time of a mutation. One row is appended per successful INSERT,
// UPDATE or DELETE and rows are never updated or removed afterwards.
// History outlives its subject: deleting a Technology keeps its rows.
type TechnologyHistory struct {
	ID           uuid.UUID `json:"id"`
	TechnologyID int64     `json:"technology_id"`
	Operation    string    `json:"operation"`

	Name           string    `json:"name"`
	VendorName     string    `json:"vendor_name"`
	VendorURL      string    `json:"vendor_url"`
	ProductURL     string    `json:"product_url"`
	LogoURL        string    `json:"logo_url"`
	Description    string    `json:"description"`
	Tier           string    `json:"tier"`
	SlugTitle      string    `json:"slug_title"`
	OwnerID        string    `json:"owner_id"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LogoApproved   bool      `json:"logo_approved"`
	IsLocked       bool      `json:"is_locked"`
}

// NewTechnologyHistory snapshots a technology into a history record.
// For INSERT and UPDATE the snapshot is the row as persisted; for DELETE
// the caller passes the last known state and then overrides the record's
// LastModifiedBy/LastModifiedAt with the deleting actor and time.
func NewTechnologyHistory(operation string, tech *Technology) *TechnologyHistory {
	return &TechnologyHistory{
		ID:             uuid.New(),
		TechnologyID:   tech.ID,
		Operation:      operation,
		Name:           tech.Name,
		VendorName:     tech.VendorName,
		VendorURL:      tech.VendorURL,
		ProductURL:     tech.ProductURL,
		LogoURL:        tech.LogoURL,
		Description:    tech.Description,
		Tier:           tech.Tier,
		SlugTitle:      tech.SlugTitle,
		OwnerID:        tech.OwnerID,
		CreatedBy:      tech.CreatedBy,
		CreatedAt:      tech.CreatedAt,
		LastModifiedBy: tech.LastModifiedBy,
		LastModifiedAt: tech.LastModifiedAt,
		LogoApproved:   tech.LogoApproved,
		IsLocked:       tech.IsLocked,
	}
}
