package types

type CategoryRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=128"`
	Description *string `json:"description"`
}
