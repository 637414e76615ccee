// Package catalogsync bridges the draft form and the product grid to the
// upstream store: it owns the round trips and translates their outcomes
// into state updates and notifications.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shopadmin/internal/alert"
	"shopadmin/internal/catalog"
	"shopadmin/internal/eventbus"
	"shopadmin/internal/storeapi"
	"shopadmin/pkg/models"

	"github.com/rs/zerolog"
)

// DefaultProductLimit matches the grid's fetch size.
const DefaultProductLimit = 100

// ErrDraftInvalid blocks a save before any request is issued.
var ErrDraftInvalid = errors.New("draft is not ready to save")

// StoreClient is the slice of the upstream store the controller needs.
// *storeapi.Client satisfies it; tests substitute fakes.
type StoreClient interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, sub models.ProductSubmission) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
}

// Dialogs covers the interactive pieces of the delete flow: the
// irreversible-action confirmation and the blocking progress indicator.
type Dialogs interface {
	Confirm(message string) bool
	Progress(message string) (done func())
}

// Controller orchestrates the catalog round trips. Post-conditions are
// published on the event bus rather than called into other components
// directly; WireRefresh declares which events imply a list refresh.
type Controller struct {
	store    StoreClient
	view     *catalog.CollectionView
	draft    *catalog.Draft
	notifier alert.Notifier
	bus      *eventbus.Bus
	dialogs  Dialogs
	log      zerolog.Logger

	mu          sync.Mutex
	filter      catalog.FilterState
	surfaceOpen bool
	placeholder string

	editCategories   *catalog.Selector
	filterCategories *catalog.Selector
	editBrands       *catalog.Selector
	filterBrands     *catalog.Selector
}

func New(store StoreClient, view *catalog.CollectionView, draft *catalog.Draft,
	notifier alert.Notifier, bus *eventbus.Bus, dialogs Dialogs, log zerolog.Logger) *Controller {
	return &Controller{
		store:            store,
		view:             view,
		draft:            draft,
		notifier:         notifier,
		bus:              bus,
		dialogs:          dialogs,
		log:              log,
		editCategories:   catalog.NewSelector(),
		filterCategories: catalog.NewSelector(),
		editBrands:       catalog.NewSelector(),
		filterBrands:     catalog.NewSelector(),
	}
}

// WireRefresh subscribes the list refresh to every event that declares
// it as a post-condition: saves, deletes and completed imports.
func (c *Controller) WireRefresh() {
	refresh := func(eventbus.Event) {
		if _, err := c.RefreshProducts(context.Background()); err != nil {
			c.log.Warn().Err(err).Msg("post-event product refresh failed")
		}
	}
	c.bus.Subscribe(eventbus.EventProductSaved, refresh)
	c.bus.Subscribe(eventbus.EventProductDeleted, refresh)
	c.bus.Subscribe(eventbus.EventImportCompleted, refresh)
}

// RefreshProducts re-fetches the product list, replaces the collection
// view and re-applies the current filter and sort. On a failed or empty
// result the grid shows a placeholder instead of cards.
func (c *Controller) RefreshProducts(ctx context.Context) ([]catalog.Card, error) {
	products, err := c.store.ListProducts(ctx, DefaultProductLimit)
	if err != nil {
		c.log.Error().Err(err).Msg("product refresh failed")
		c.view.ReplaceAll(nil)
		c.setPlaceholder(storeapi.UserMessage(err, "failed to load products"))
		return nil, err
	}

	if len(products) == 0 {
		c.view.ReplaceAll(nil)
		c.setPlaceholder("no products found")
	} else {
		c.view.ReplaceAll(products)
		c.setPlaceholder("")
	}

	c.bus.Publish(eventbus.Event{Type: eventbus.EventProductsRefreshed, Count: len(products)})
	return c.view.Apply(c.Filter()), nil
}

// SetFilter applies a new filter/sort state against the already-fetched
// collection. Never triggers a re-fetch.
func (c *Controller) SetFilter(f catalog.FilterState) []catalog.Card {
	c.mu.Lock()
	// A value the widget rejects as unknown falls back to "all" so the
	// filter never narrows on an id that is not offered.
	if !c.filterCategories.Select(f.CategoryID) {
		f.CategoryID = catalog.FilterAll
		c.filterCategories.Select(f.CategoryID)
	}
	if !c.filterBrands.Select(f.BrandID) {
		f.BrandID = catalog.FilterAll
		c.filterBrands.Select(f.BrandID)
	}
	c.filter = f
	c.mu.Unlock()

	return c.view.Apply(f)
}

func (c *Controller) Filter() catalog.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Placeholder is the inline message shown instead of cards after an
// empty or failed fetch; empty when cards are on screen.
func (c *Controller) Placeholder() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placeholder
}

func (c *Controller) setPlaceholder(msg string) {
	c.mu.Lock()
	c.placeholder = msg
	c.mu.Unlock()
}

// RefreshCategories re-fetches the category reference list and
// repopulates both selection widgets, preserving each widget's selected
// value when it survives the refresh.
func (c *Controller) RefreshCategories(ctx context.Context) error {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("category refresh failed")
		return fmt.Errorf("refresh categories: %w", err)
	}

	options := make([]catalog.Option, 0, len(categories))
	for _, cat := range categories {
		options = append(options, catalog.Option{ID: cat.ID, Name: cat.Name})
	}

	c.mu.Lock()
	c.editCategories.Repopulate(options)
	c.filterCategories.Repopulate(options)
	// A filter value that disappeared from the list falls back to "all
	// categories".
	c.filter.CategoryID = c.filterCategories.Selected()
	c.mu.Unlock()
	return nil
}

// RefreshBrands mirrors RefreshCategories for the brand widgets.
func (c *Controller) RefreshBrands(ctx context.Context) error {
	brands, err := c.store.ListBrands(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("brand refresh failed")
		return fmt.Errorf("refresh brands: %w", err)
	}

	options := make([]catalog.Option, 0, len(brands))
	for _, b := range brands {
		options = append(options, catalog.Option{ID: b.ID, Name: b.Name})
	}

	c.mu.Lock()
	c.editBrands.Repopulate(options)
	c.filterBrands.Repopulate(options)
	c.filter.BrandID = c.filterBrands.Selected()
	c.mu.Unlock()
	return nil
}

// LoadForEdit fetches one product and hands it to the draft, opening the
// edit surface. Failures surface as an inline error and leave the draft
// untouched.
func (c *Controller) LoadForEdit(ctx context.Context, id string) error {
	product, err := c.store.GetProduct(ctx, id)
	if err != nil {
		c.notifier.Inline(alert.KindError, storeapi.UserMessage(err, "failed to load product"))
		return err
	}
	if product.ID == "" {
		// Defensive: a store response missing the id still refers to the
		// product we asked for.
		product.ID = id
	}

	c.draft.LoadFromProduct(*product)

	c.mu.Lock()
	c.surfaceOpen = true
	c.editCategories.Select(product.CategoryID)
	c.editBrands.Select(product.BrandID)
	c.mu.Unlock()
	return nil
}

// OpenCreate opens the form surface with a fresh draft.
func (c *Controller) OpenCreate() {
	c.draft.Reset()
	c.mu.Lock()
	c.surfaceOpen = true
	c.mu.Unlock()
}

// CloseSurface closes the form without saving; the draft is kept so a
// reopened form resumes where the operator left off.
func (c *Controller) CloseSurface() {
	c.mu.Lock()
	c.surfaceOpen = false
	c.mu.Unlock()
}

func (c *Controller) SurfaceOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surfaceOpen
}

// Save submits the current draft. On success the surface closes, the
// draft resets, a save event is published (the wired refresh follows)
// and a global success banner shows. On failure the form stays open with
// the draft intact and an inline error.
func (c *Controller) Save(ctx context.Context) error {
	if !c.draft.Valid() {
		c.notifier.Inline(alert.KindWarning, "complete all required fields before saving")
		return ErrDraftInvalid
	}

	sub := c.draft.Submission()
	if err := c.store.SaveProduct(ctx, sub); err != nil {
		c.notifier.Inline(alert.KindError, storeapi.UserMessage(err, "failed to save product"))
		return err
	}

	c.mu.Lock()
	c.surfaceOpen = false
	c.mu.Unlock()
	c.draft.Reset()

	c.bus.Publish(eventbus.Event{Type: eventbus.EventProductSaved, ProductID: sub.ProductID})
	c.notifier.Global(alert.KindSuccess, "product saved")
	return nil
}

// Delete removes a product after interactive confirmation. Declining
// sends no request. Transport and application failures read identically
// to the operator.
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.DeleteWith(ctx, id, c.dialogs)
}

// DeleteWith runs the delete flow against caller-supplied dialogs; the
// HTTP surface uses it to carry the operator's answer per request.
func (c *Controller) DeleteWith(ctx context.Context, id string, dialogs Dialogs) error {
	if !dialogs.Confirm("This permanently removes the product and its images. Continue?") {
		return nil
	}

	done := dialogs.Progress("deleting product")
	err := c.store.DeleteProduct(ctx, id)
	done()

	if err != nil {
		c.log.Error().Err(err).Str("product_id", id).Msg("delete failed")
		c.notifier.Toast(alert.KindError, "failed to delete product")
		return err
	}

	c.bus.Publish(eventbus.Event{Type: eventbus.EventProductDeleted, ProductID: id})
	c.notifier.Toast(alert.KindSuccess, "product deleted")
	return nil
}

// Draft exposes the form state to the HTTP surface.
func (c *Controller) Draft() *catalog.Draft {
	return c.draft
}

// View exposes the collection view to the HTTP surface.
func (c *Controller) View() *catalog.CollectionView {
	return c.view
}

// Widget accessors for the two selector pairs.
func (c *Controller) EditCategories() *catalog.Selector   { return c.editCategories }
func (c *Controller) FilterCategories() *catalog.Selector { return c.filterCategories }
func (c *Controller) EditBrands() *catalog.Selector       { return c.editBrands }
func (c *Controller) FilterBrands() *catalog.Selector     { return c.filterBrands }
