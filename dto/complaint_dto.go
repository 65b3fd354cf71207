package dto

type LocationDTO struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
}

type CreateComplaintDTO struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description" binding:"required"`
	Category    string       `json:"category"` // defaults to other
	Image       string       `json:"image"`
	Location    *LocationDTO `json:"location" binding:"required"`
}

// UpdateComplaintStatusDTO — all fields optional, admin/officer only
type UpdateComplaintStatusDTO struct {
	Status            *string `json:"status"`
	ResolutionNotes   *string `json:"resolutionNotes"`
	AssignedOfficerID *string `json:"assignedOfficerId"`
}
