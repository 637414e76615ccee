// Package app assembles the long-lived application state shared by the
// HTTP surface.
package app

import (
	"shopadmin/internal/alert"
	"shopadmin/internal/bulkimport"
	"shopadmin/internal/catalog"
	"shopadmin/internal/catalogsync"
	"shopadmin/internal/eventbus"
	"shopadmin/internal/storeapi"

	"github.com/rs/zerolog"
)

// Services holds the application's shared state: the store client, the
// catalog controller with its draft and view, the alert presenter, the
// event bus and the import orchestrator.
type Services struct {
	Store      *storeapi.Client
	Presenter  *alert.Presenter
	Bus        *eventbus.Bus
	Controller *catalogsync.Controller
	Importer   *bulkimport.Orchestrator
}

// headlessDialogs is the default confirmation policy when no request
// supplies an operator answer: destructive actions are declined.
type headlessDialogs struct {
	log zerolog.Logger
}

func (d headlessDialogs) Confirm(message string) bool {
	d.log.Warn().Str("question", message).Msg("confirmation required but no operator answer available")
	return false
}

func (d headlessDialogs) Progress(string) func() {
	return func() {}
}

// NewServices wires the application graph against one store base URL.
// Saves, deletes and completed imports trigger a product list refresh
// through the bus.
func NewServices(storeBaseURL string, log zerolog.Logger) *Services {
	store := storeapi.NewClient(storeBaseURL, log)
	presenter := alert.NewPresenter(log)
	bus := eventbus.New(log)

	controller := catalogsync.New(store, catalog.NewCollectionView(), catalog.NewDraft(),
		presenter, bus, headlessDialogs{log: log}, log)
	controller.WireRefresh()

	importer := bulkimport.New(store, presenter, bus, log)

	return &Services{
		Store:      store,
		Presenter:  presenter,
		Bus:        bus,
		Controller: controller,
		Importer:   importer,
	}
}
