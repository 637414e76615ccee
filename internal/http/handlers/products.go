package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"shopadmin/internal/catalog"
	"shopadmin/internal/catalogsync"
	"shopadmin/pkg/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ProductHandler exposes the product grid, the draft form and the
// destructive actions over HTTP.
type ProductHandler struct {
	ctrl *catalogsync.Controller
	log  zerolog.Logger
}

func NewProductHandler(ctrl *catalogsync.Controller, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{ctrl: ctrl, log: log}
}

// requestDialogs answers the delete confirmation from the request's
// confirm parameter; the browser asked the operator before calling us.
type requestDialogs struct {
	confirmed bool
	log       zerolog.Logger
}

func (d requestDialogs) Confirm(string) bool {
	return d.confirmed
}

func (d requestDialogs) Progress(message string) func() {
	started := time.Now()
	d.log.Debug().Str("action", message).Msg("started")
	return func() {
		d.log.Debug().Str("action", message).Dur("took", time.Since(started)).Msg("finished")
	}
}

type gridResponse struct {
	Cards       []catalog.Card      `json:"cards"`
	Placeholder string              `json:"placeholder,omitempty"`
	Filter      catalog.FilterState `json:"filter"`
}

// List returns the current grid projection without touching upstream.
func (h *ProductHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, gridResponse{
		Cards:       h.ctrl.View().Apply(h.ctrl.Filter()),
		Placeholder: h.ctrl.Placeholder(),
		Filter:      h.ctrl.Filter(),
	})
}

// Refresh re-fetches the catalog from the store and returns the fresh
// projection.
func (h *ProductHandler) Refresh(c echo.Context) error {
	cards, err := h.ctrl.RefreshProducts(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": h.ctrl.Placeholder()})
	}
	return c.JSON(http.StatusOK, gridResponse{
		Cards:       cards,
		Placeholder: h.ctrl.Placeholder(),
		Filter:      h.ctrl.Filter(),
	})
}

// SetFilter applies a new filter/sort state against the already-fetched
// collection.
func (h *ProductHandler) SetFilter(c echo.Context) error {
	var req models.FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	cards := h.ctrl.SetFilter(catalog.FilterState{
		Query:      req.Query,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		Sort:       catalog.ParseSortKey(req.Sort),
	})
	return c.JSON(http.StatusOK, gridResponse{
		Cards:       cards,
		Placeholder: h.ctrl.Placeholder(),
		Filter:      h.ctrl.Filter(),
	})
}

// Edit loads a product into the draft and opens the form surface.
func (h *ProductHandler) Edit(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing product id"})
	}
	if err := h.ctrl.LoadForEdit(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to load product"})
	}
	return c.JSON(http.StatusOK, h.draftState())
}

// Delete removes a product. The confirm query parameter carries the
// operator's answer to the irreversible-action prompt; without it no
// upstream request is made.
func (h *ProductHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing product id"})
	}

	confirmed := c.QueryParam("confirm") == "true"
	dialogs := requestDialogs{confirmed: confirmed, log: h.log}
	if err := h.ctrl.DeleteWith(c.Request().Context(), id, dialogs); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to delete product"})
	}
	if !confirmed {
		return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

type draftStateResponse struct {
	Draft struct {
		ProductID   string `json:"product_id,omitempty"`
		Title       string `json:"title"`
		Price       string `json:"price"`
		CategoryID  string `json:"category_id"`
		BrandID     string `json:"brand_id"`
		Description string `json:"description"`
	} `json:"draft"`
	Tags          []string `json:"tags"`
	PendingFiles  []string `json:"pending_files"`
	Valid         bool     `json:"valid"`
	MissingImages bool     `json:"missing_images"`
	SurfaceOpen   bool     `json:"surface_open"`
}

func (h *ProductHandler) draftState() draftStateResponse {
	draft := h.ctrl.Draft()

	var resp draftStateResponse
	resp.Draft.ProductID = draft.EditingProductID
	resp.Draft.Title = draft.Title
	resp.Draft.Price = draft.Price
	resp.Draft.CategoryID = draft.CategoryID
	resp.Draft.BrandID = draft.BrandID
	resp.Draft.Description = draft.Description
	resp.Tags = draft.Tags()
	for _, f := range draft.PendingFiles() {
		resp.PendingFiles = append(resp.PendingFiles, f.Name)
	}
	resp.Valid = draft.Valid()
	resp.MissingImages = draft.MissingImages()
	resp.SurfaceOpen = h.ctrl.SurfaceOpen()
	return resp
}

// GetDraft returns the current form state.
func (h *ProductHandler) GetDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, h.draftState())
}

// NewDraft opens the form surface in create mode with a fresh draft.
func (h *ProductHandler) NewDraft(c echo.Context) error {
	h.ctrl.OpenCreate()
	return c.JSON(http.StatusOK, h.draftState())
}

// UpdateDraft writes the scalar form fields.
func (h *ProductHandler) UpdateDraft(c echo.Context) error {
	var req models.DraftUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	draft := h.ctrl.Draft()
	draft.Title = req.Title
	draft.Price = req.Price
	draft.CategoryID = req.CategoryID
	draft.BrandID = req.BrandID
	draft.Description = req.Description
	return c.JSON(http.StatusOK, h.draftState())
}

// AddFiles admits uploaded images into the draft's pending list. Files
// over the limit and non-images are silently excluded, mirroring what
// the form shows.
func (h *ProductHandler) AddFiles(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
	}

	var candidates []models.FileUpload
	for _, fh := range form.File["images[]"] {
		src, err := fh.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			continue
		}
		candidates = append(candidates, models.FileUpload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	admitted := h.ctrl.Draft().AdmitFiles(candidates)
	return c.JSON(http.StatusOK, map[string]any{
		"admitted": admitted,
		"state":    h.draftState(),
	})
}

// RemoveFile drops one pending file by position.
func (h *ProductHandler) RemoveFile(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid file index"})
	}
	if !h.ctrl.Draft().RemoveFile(index) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no pending file at index"})
	}
	return c.JSON(http.StatusOK, h.draftState())
}

// AddTag prepends a keyword tag to the draft.
func (h *ProductHandler) AddTag(c echo.Context) error {
	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.ctrl.Draft().AddTag(req.Tag)
	return c.JSON(http.StatusOK, h.draftState())
}

// RemoveTag removes every occurrence of a keyword tag.
func (h *ProductHandler) RemoveTag(c echo.Context) error {
	var req models.TagRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	h.ctrl.Draft().RemoveTag(req.Tag)
	return c.JSON(http.StatusOK, h.draftState())
}

// SaveDraft submits the draft upstream. Validation failures block the
// request and surface as an inline warning.
func (h *ProductHandler) SaveDraft(c echo.Context) error {
	if err := h.ctrl.Save(c.Request().Context()); err != nil {
		if err == catalogsync.ErrDraftInvalid {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "draft is incomplete"})
		}
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "failed to save product"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

// CloseDraft closes the form surface without saving.
func (h *ProductHandler) CloseDraft(c echo.Context) error {
	h.ctrl.CloseSurface()
	return c.JSON(http.StatusOK, h.draftState())
}
