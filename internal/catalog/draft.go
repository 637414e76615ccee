package catalog

import (
	"strings"

	"shopadmin/pkg/models"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPendingFiles caps the number of images attached to one draft.
const MaxPendingFiles = 5

// Draft is the working copy of a product being authored in the admin
// form. EditingProductID empty means create mode; otherwise it holds the
// identifier of the product being edited, which relaxes the image
// requirement and is forwarded on save.
type Draft struct {
	EditingProductID string

	// Scalar fields are validated at the HTTP boundary
	// (models.DraftUpdateRequest); Valid() owns the submit gate.
	Title       string
	Price       string
	CategoryID  string
	BrandID     string
	Description string

	tags  []string
	files []models.FileUpload
}

func NewDraft() *Draft {
	return &Draft{}
}

// Editing reports whether the draft targets an existing product.
func (d *Draft) Editing() bool {
	return d.EditingProductID != ""
}

// AdmitFiles appends image-type candidates to the pending list, keeping
// existing files first and truncating the combined list to
// MaxPendingFiles. Non-image candidates are silently excluded and never
// count toward the cap. Returns how many candidates were admitted.
func (d *Draft) AdmitFiles(candidates []models.FileUpload) int {
	admitted := 0
	for _, f := range candidates {
		if len(d.files) >= MaxPendingFiles {
			break
		}
		if !isImage(f) {
			continue
		}
		d.files = append(d.files, f)
		admitted++
	}
	return admitted
}

func isImage(f models.FileUpload) bool {
	if strings.HasPrefix(f.ContentType, "image/") {
		return true
	}
	// Browsers occasionally omit or mangle the declared type; sniff the
	// content before rejecting.
	if len(f.Data) > 0 {
		return strings.HasPrefix(mimetype.Detect(f.Data).String(), "image/")
	}
	return false
}

// RemoveFile drops one pending file by position.
func (d *Draft) RemoveFile(index int) bool {
	if index < 0 || index >= len(d.files) {
		return false
	}
	d.files = append(d.files[:index], d.files[index+1:]...)
	return true
}

// PendingFiles returns a copy of the pending image list.
func (d *Draft) PendingFiles() []models.FileUpload {
	out := make([]models.FileUpload, len(d.files))
	copy(out, d.files)
	return out
}

// AddTag trims the value and prepends it to the tag list (most recent
// first). Empty input is a no-op. Duplicates are not collapsed.
func (d *Draft) AddTag(raw string) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return
	}
	d.tags = append([]string{token}, d.tags...)
}

// RemoveTag removes every occurrence of the given token.
func (d *Draft) RemoveTag(token string) {
	kept := d.tags[:0]
	for _, t := range d.tags {
		if t != token {
			kept = append(kept, t)
		}
	}
	d.tags = kept
}

// Tags returns a copy of the current tag tokens.
func (d *Draft) Tags() []string {
	out := make([]string, len(d.tags))
	copy(out, d.tags)
	return out
}

// LoadFromProduct enters edit mode for the given product. The tag list is
// replaced by the product's keywords and pending files are cleared: edits
// do not require re-uploading images.
func (d *Draft) LoadFromProduct(p models.Product) {
	d.EditingProductID = p.ID
	d.Title = p.Title
	d.Price = p.Price
	d.CategoryID = p.CategoryID
	d.BrandID = p.BrandID
	d.Description = p.Description
	d.tags = append([]string(nil), p.Keywords...)
	d.files = nil
}

// Reset clears all state and returns to create mode.
func (d *Draft) Reset() {
	*d = Draft{}
}

// Valid reports whether the draft can be submitted: title, price,
// category and brand non-empty, and at least one pending image unless
// editing an existing product. The save control mirrors this exactly.
func (d *Draft) Valid() bool {
	if strings.TrimSpace(d.Title) == "" ||
		strings.TrimSpace(d.Price) == "" ||
		strings.TrimSpace(d.CategoryID) == "" ||
		strings.TrimSpace(d.BrandID) == "" {
		return false
	}
	return len(d.files) > 0 || d.Editing()
}

// MissingImages reports whether the missing-image warning should show:
// images absent while in create mode.
func (d *Draft) MissingImages() bool {
	return !d.Editing() && len(d.files) == 0
}

// Submission builds the upstream save payload: trimmed scalars, the
// comma-joined tag string, every pending file, and the product id only
// when editing.
func (d *Draft) Submission() models.ProductSubmission {
	return models.ProductSubmission{
		ProductID:   d.EditingProductID,
		Title:       strings.TrimSpace(d.Title),
		Price:       strings.TrimSpace(d.Price),
		CategoryID:  strings.TrimSpace(d.CategoryID),
		BrandID:     strings.TrimSpace(d.BrandID),
		Description: strings.TrimSpace(d.Description),
		Keywords:    models.JoinKeywords(d.tags),
		Images:      d.PendingFiles(),
	}
}
