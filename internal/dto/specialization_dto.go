package dto

type CreateSpecializationInput struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Category    string `json:"category" binding:"required,min=2,max=50"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
}

type UpdateSpecializationInput struct {
	Name        string  `json:"name" binding:"omitempty,min=2,max=100"`
	Category    string  `json:"category" binding:"omitempty,min=2,max=50"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
