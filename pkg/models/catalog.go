package models

import "strings"

// Product is the canonical, normalized shape of a catalog product as the
// admin surface sees it. Identity is owned by the upstream store; this is
// a transient copy and may be stale.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	CategoryID  string   `json:"category_id"`
	BrandID     string   `json:"brand_id"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Images      []string `json:"images"`
}

// Category represents a product category reference
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Brand represents a product brand reference
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileUpload carries one pending image file for a product submission
type FileUpload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// ProductSubmission is the multipart payload for the upstream save
// operation. ProductID is empty when creating; the upstream endpoint
// decides create-vs-update from its presence.
type ProductSubmission struct {
	ProductID   string
	Title       string
	Price       string
	CategoryID  string
	BrandID     string
	Description string
	Keywords    string
	Images      []FileUpload
}

// ImportReport is the aggregate outcome of one bulk import request.
// Transient; discarded once displayed.
type ImportReport struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
}

// ParseKeywords splits a comma-joined keyword string into trimmed,
// non-empty tokens, preserving order.
func ParseKeywords(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// JoinKeywords is the inverse of ParseKeywords for the wire format.
func JoinKeywords(tokens []string) string {
	return strings.Join(tokens, ",")
}
