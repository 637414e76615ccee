package models

// DraftUpdateRequest carries the scalar form fields of the product
// draft. File and tag changes have their own endpoints.
type DraftUpdateRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Price       string `json:"price" validate:"max=50"`
	CategoryID  string `json:"category_id" validate:"max=50"`
	BrandID     string `json:"brand_id" validate:"max=50"`
	Description string `json:"description" validate:"max=300"`
}

// FilterRequest sets the product grid's filter and sort state.
type FilterRequest struct {
	Query      string `json:"query" validate:"max=200"`
	CategoryID string `json:"category_id" validate:"max=50"`
	BrandID    string `json:"brand_id" validate:"max=50"`
	Sort       string `json:"sort" validate:"omitempty,oneof=newest alpha price_asc price_desc"`
}

// TagRequest adds or removes one keyword tag on the draft.
type TagRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}
