// Package bulkimport drives the ZIP/CSV catalog import: file selection,
// archive preflight, the upload round trip and the result panels.
package bulkimport

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"shopadmin/internal/alert"
	"shopadmin/internal/eventbus"
	"shopadmin/internal/storeapi"
	"shopadmin/internal/utils"
	"shopadmin/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State tracks where the import flow is. Completed and Failed are
// resting states; Reset returns to Idle.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// ErrNoFile is returned when Submit runs without a selected archive.
var ErrNoFile = errors.New("no import file selected")

// Uploader is the upstream slice the orchestrator needs; *storeapi.Client
// satisfies it.
type Uploader interface {
	BulkImport(ctx context.Context, filename string, file io.Reader) (*models.ImportReport, error)
}

// Orchestrator owns one import flow at a time. The submit trigger's
// label and enabled state derive from State, so a finished upload always
// restores them.
type Orchestrator struct {
	uploader Uploader
	notifier alert.Notifier
	bus      *eventbus.Bus
	log      zerolog.Logger

	mu        sync.Mutex
	state     State
	selected  *models.FileUpload
	report    *models.ImportReport
	failure   string
	preflight []string
	runID     string
}

func New(uploader Uploader, notifier alert.Notifier, bus *eventbus.Bus, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		uploader: uploader,
		notifier: notifier,
		bus:      bus,
		log:      log,
		state:    StateIdle,
	}
}

// SelectFile stages an archive for the next Submit, replacing any
// previous selection and clearing stale results.
func (o *Orchestrator) SelectFile(file models.FileUpload) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = &file
	o.report = nil
	o.failure = ""
	o.preflight = nil
	if o.state != StateUploading {
		o.state = StateIdle
	}
}

func (o *Orchestrator) ClearSelection() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = nil
}

// SelectedFile reports the staged archive's name, if any.
func (o *Orchestrator) SelectedFile() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selected == nil {
		return "", false
	}
	return o.selected.Name, true
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// TriggerLabel is the submit button text for the current state.
func (o *Orchestrator) TriggerLabel() string {
	if o.State() == StateUploading {
		return "Importing..."
	}
	return "Start import"
}

// TriggerEnabled is false only while an upload is in flight.
func (o *Orchestrator) TriggerEnabled() bool {
	return o.State() != StateUploading
}

// Submit uploads the staged archive. The selection is consumed whatever
// the outcome: a finished import, successful or not, starts the next one
// from a fresh file pick.
func (o *Orchestrator) Submit(ctx context.Context) error {
	o.mu.Lock()
	if o.state == StateUploading {
		o.mu.Unlock()
		return fmt.Errorf("import already in progress")
	}
	if o.selected == nil {
		o.mu.Unlock()
		o.notifier.Inline(alert.KindWarning, "choose an archive to import first")
		return ErrNoFile
	}
	file := *o.selected
	o.mu.Unlock()

	warnings, err := preflightArchive(file)
	if err != nil {
		o.mu.Lock()
		o.selected = nil
		o.state = StateFailed
		o.failure = err.Error()
		o.mu.Unlock()
		o.notifier.Inline(alert.KindError, err.Error())
		return err
	}

	runID := uuid.New().String()
	o.mu.Lock()
	o.state = StateUploading
	o.preflight = warnings
	o.runID = runID
	o.mu.Unlock()
	o.log.Info().Str("run_id", runID).Str("file", file.Name).Msg("bulk import started")

	report, err := o.uploader.BulkImport(ctx, file.Name, bytes.NewReader(file.Data))

	o.mu.Lock()
	o.selected = nil
	if err != nil {
		o.state = StateFailed
		o.failure = storeapi.UserMessage(err, "upload failed")
		// A failed upload shows only its failure message; the results
		// panel stays hidden.
		o.preflight = nil
		failure := o.failure
		o.mu.Unlock()
		o.log.Error().Err(err).Str("run_id", runID).Str("file", file.Name).Msg("bulk import failed")
		o.notifier.Inline(alert.KindError, failure)
		return err
	}
	o.state = StateCompleted
	o.report = report
	o.mu.Unlock()
	o.log.Info().Str("run_id", runID).
		Int("success", report.SuccessCount).
		Int("errors", report.ErrorCount).
		Msg("bulk import completed")

	if report.SuccessCount > 0 {
		o.notifier.Toast(alert.KindSuccess, fmt.Sprintf("imported %d products", report.SuccessCount))
		o.bus.Publish(eventbus.Event{Type: eventbus.EventImportCompleted, Count: report.SuccessCount})
	}
	return nil
}

// Report returns the last completed import's outcome, nil otherwise.
func (o *Orchestrator) Report() *models.ImportReport {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.report == nil {
		return nil
	}
	copied := *o.report
	return &copied
}

// RunID correlates the current or last upload with its log entries.
func (o *Orchestrator) RunID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runID
}

// Failure is the message for the error panel after a failed upload.
func (o *Orchestrator) Failure() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failure
}

// PanelErrors returns the per-row error list, escaped for rendering. The
// panel only shows when the report counted errors.
func (o *Orchestrator) PanelErrors() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.report == nil || o.report.ErrorCount == 0 {
		return nil
	}
	return escapeAll(o.report.Errors)
}

// PanelWarnings merges preflight and report warnings, escaped.
func (o *Orchestrator) PanelWarnings() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	out = append(out, escapeAll(o.preflight)...)
	if o.report != nil {
		out = append(out, escapeAll(o.report.Warnings)...)
	}
	return out
}

// Reset returns a resting flow to Idle and clears its results.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateUploading {
		return
	}
	o.state = StateIdle
	o.report = nil
	o.failure = ""
	o.preflight = nil
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = html.EscapeString(s)
	}
	return out
}

// preflightArchive verifies the upload is a readable ZIP holding at
// least one CSV and sniffs each CSV for delimiter surprises worth a
// warning. It never inspects row contents; that is the store's job.
func preflightArchive(file models.FileUpload) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return nil, fmt.Errorf("%s is not a readable zip archive", file.Name)
	}

	var warnings []string
	csvFound := false
	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".csv") {
			continue
		}
		csvFound = true

		rc, err := entry.Open()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: could not be read", entry.Name))
			continue
		}
		analysis, aerr := utils.AnalyzeCSV(rc)
		rc.Close()
		if aerr != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", entry.Name, aerr))
			continue
		}
		if analysis.Delimiter == ';' {
			warnings = append(warnings, fmt.Sprintf("%s: uses ';' as delimiter", entry.Name))
		}
		if analysis.DelimiterConfidence < 0.8 {
			warnings = append(warnings, fmt.Sprintf("%s: delimiter could not be detected reliably", entry.Name))
		}
	}
	if !csvFound {
		return nil, fmt.Errorf("%s contains no csv file", file.Name)
	}
	return warnings, nil
}
