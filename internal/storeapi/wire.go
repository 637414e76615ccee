package storeapi

import (
	"bytes"
	"encoding/json"
	"strconv"

	"shopadmin/pkg/models"
)

// The legacy store is inconsistent about field names and scalar types
// (ids arrive as strings or numbers, success flags under "status", "ok"
// or "success"). Everything variant is absorbed here so one canonical
// shape crosses into the rest of the code.

// flexString accepts a JSON string, number, or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			*s = ""
			return nil
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(n.String())
	return nil
}

// flexBool accepts true, "true", 1 and "1".
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	var s flexString
	_ = s.UnmarshalJSON(b)
	*f = flexBool(string(s) == "true" || string(s) == "1")
	return nil
}

// flexInt accepts a JSON number or numeric string, defaulting to 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	_ = s.UnmarshalJSON(b)
	n, err := strconv.Atoi(string(s))
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// envelope is the common response wrapper. List endpoints signal success
// with ok/success booleans, the action endpoints with status == "success".
type envelope struct {
	Status  string          `json:"status"`
	OK      flexBool        `json:"ok"`
	Success flexBool        `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`

	// bulk import extras, present only on that endpoint
	SuccessCount flexInt  `json:"success_count"`
	ErrorCount   flexInt  `json:"error_count"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

func (e envelope) succeeded() bool {
	return e.Status == "success" || bool(e.OK) || bool(e.Success)
}

type productWire struct {
	ID          flexString `json:"product_id"`
	Title       string     `json:"product_title"`
	Price       flexString `json:"product_price"`
	CategoryID  flexString `json:"product_cat"`
	BrandID     flexString `json:"product_brand"`
	Description string     `json:"product_desc"`
	Keywords    string     `json:"product_keywords"`
	Image       string     `json:"product_image"`
	Images      []string   `json:"product_images"`
}

func (w productWire) normalize() models.Product {
	images := w.Images
	if len(images) == 0 && w.Image != "" {
		images = []string{w.Image}
	}
	return models.Product{
		ID:          string(w.ID),
		Title:       w.Title,
		Price:       string(w.Price),
		CategoryID:  string(w.CategoryID),
		BrandID:     string(w.BrandID),
		Description: w.Description,
		Keywords:    models.ParseKeywords(w.Keywords),
		Images:      images,
	}
}

type categoryWire struct {
	CatID        flexString `json:"cat_id"`
	CategoryID   flexString `json:"category_id"`
	CatName      string     `json:"cat_name"`
	CategoryName string     `json:"category_name"`
}

func (w categoryWire) normalize() models.Category {
	return models.Category{
		ID:   firstNonEmpty(string(w.CatID), string(w.CategoryID)),
		Name: firstNonEmpty(w.CatName, w.CategoryName),
	}
}

type brandWire struct {
	BrandID   flexString `json:"brand_id"`
	ID        flexString `json:"id"`
	BrandName string     `json:"brand_name"`
	Name      string     `json:"name"`
}

func (w brandWire) normalize() models.Brand {
	return models.Brand{
		ID:   firstNonEmpty(string(w.BrandID), string(w.ID)),
		Name: firstNonEmpty(w.BrandName, w.Name),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
