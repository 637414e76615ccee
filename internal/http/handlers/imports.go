package handlers

import (
	"io"
	"net/http"

	"shopadmin/internal/bulkimport"
	"shopadmin/pkg/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ImportHandler drives the bulk ZIP/CSV import flow.
type ImportHandler struct {
	orc         *bulkimport.Orchestrator
	templateURL string
	log         zerolog.Logger
}

func NewImportHandler(orc *bulkimport.Orchestrator, templateURL string, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{orc: orc, templateURL: templateURL, log: log}
}

// SelectFile stages the uploaded archive for the next submit.
func (h *ImportHandler) SelectFile(c echo.Context) error {
	fh, err := c.FormFile("bulk_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing bulk_file upload"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable upload"})
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable upload"})
	}

	h.orc.SelectFile(models.FileUpload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	return c.JSON(http.StatusOK, h.status())
}

// ClearSelection drops the staged archive.
func (h *ImportHandler) ClearSelection(c echo.Context) error {
	h.orc.ClearSelection()
	return c.JSON(http.StatusOK, h.status())
}

// Submit runs the import round trip for the staged archive.
func (h *ImportHandler) Submit(c echo.Context) error {
	if err := h.orc.Submit(c.Request().Context()); err != nil {
		if err == bulkimport.ErrNoFile {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "choose an archive to import first"})
		}
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":  h.orc.Failure(),
			"status": h.status(),
		})
	}
	return c.JSON(http.StatusOK, h.status())
}

type importStatus struct {
	State          bulkimport.State     `json:"state"`
	TriggerLabel   string               `json:"trigger_label"`
	TriggerEnabled bool                 `json:"trigger_enabled"`
	SelectedFile   string               `json:"selected_file,omitempty"`
	RunID          string               `json:"run_id,omitempty"`
	Report         *models.ImportReport `json:"report,omitempty"`
	Errors         []string             `json:"errors,omitempty"`
	Warnings       []string             `json:"warnings,omitempty"`
	Failure        string               `json:"failure,omitempty"`
}

func (h *ImportHandler) status() importStatus {
	name, _ := h.orc.SelectedFile()
	return importStatus{
		State:          h.orc.State(),
		TriggerLabel:   h.orc.TriggerLabel(),
		TriggerEnabled: h.orc.TriggerEnabled(),
		SelectedFile:   name,
		RunID:          h.orc.RunID(),
		Report:         h.orc.Report(),
		Errors:         h.orc.PanelErrors(),
		Warnings:       h.orc.PanelWarnings(),
		Failure:        h.orc.Failure(),
	}
}

// Status reports the current flow state and result panels.
func (h *ImportHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status())
}

// Reset returns a resting flow to idle.
func (h *ImportHandler) Reset(c echo.Context) error {
	h.orc.Reset()
	return c.JSON(http.StatusOK, h.status())
}

// Template serves the starter archive for download.
func (h *ImportHandler) Template(c echo.Context) error {
	data, err := bulkimport.BuildTemplate()
	if err != nil {
		h.log.Error().Err(err).Msg("template build failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to build template"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+bulkimport.TemplateFilename+`"`)
	return c.Blob(http.StatusOK, "application/zip", data)
}

// TemplateURL points at the store's own template download for clients
// that prefer the upstream copy.
func (h *ImportHandler) TemplateURL(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"url": h.templateURL})
}
