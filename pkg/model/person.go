// Package model defines the person records and tree nodes shared by the
// loader, builder, view and export packages.
package model

import "strings"

// PersonRecord is one row of the directory table. Only ID is required.
type PersonRecord struct {
	ID            string `json:"id"`
	ManagerID     string `json:"manager_id,omitempty"`
	DisplayName   string `json:"name,omitempty"`
	Title         string `json:"title,omitempty"`
	CorporateUnit string `json:"corporate_unit,omitempty"`
	Team          string `json:"team,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Normalized returns a copy with ID and ManagerID trimmed of whitespace.
func (r PersonRecord) Normalized() PersonRecord {
	r.ID = strings.TrimSpace(r.ID)
	r.ManagerID = strings.TrimSpace(r.ManagerID)
	return r
}

// HasID reports whether the record carries a usable identifier.
func (r PersonRecord) HasID() bool {
	return strings.TrimSpace(r.ID) != ""
}

// HasManager reports whether the record names a manager other than itself.
func (r PersonRecord) HasManager() bool {
	mgr := strings.TrimSpace(r.ManagerID)
	return mgr != "" && mgr != strings.TrimSpace(r.ID)
}

// Label returns the display name, falling back to the id.
func (r PersonRecord) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.ID
}

// FirstNonEmpty returns the first argument that is not blank after trimming.
// It implements the "primary ?? alias ?? empty" rule used for optional
// columns that accept more than one header spelling.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
