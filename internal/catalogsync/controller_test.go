package catalogsync

import (
	"context"
	"testing"

	"shopadmin/internal/alert"
	"shopadmin/internal/catalog"
	"shopadmin/internal/eventbus"
	"shopadmin/internal/storeapi"
	"shopadmin/pkg/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products   []models.Product
	product    *models.Product
	categories []models.Category
	brands     []models.Brand

	listErr   error
	getErr    error
	saveErr   error
	deleteErr error

	savedSubs  []models.ProductSubmission
	deletedIDs []string
	listCalls  int
}

func (f *fakeStore) ListProducts(_ context.Context, _ int) ([]models.Product, error) {
	f.listCalls++
	return f.products, f.listErr
}

func (f *fakeStore) GetProduct(_ context.Context, _ string) (*models.Product, error) {
	return f.product, f.getErr
}

func (f *fakeStore) SaveProduct(_ context.Context, sub models.ProductSubmission) error {
	f.savedSubs = append(f.savedSubs, sub)
	return f.saveErr
}

func (f *fakeStore) DeleteProduct(_ context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return f.deleteErr
}

func (f *fakeStore) ListCategories(_ context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeStore) ListBrands(_ context.Context) ([]models.Brand, error) {
	return f.brands, nil
}

type fakeDialogs struct {
	confirm      bool
	confirmAsked int
	progressOpen int
	progressDone int
	lastQuestion string
}

func (f *fakeDialogs) Confirm(message string) bool {
	f.confirmAsked++
	f.lastQuestion = message
	return f.confirm
}

func (f *fakeDialogs) Progress(string) func() {
	f.progressOpen++
	return func() { f.progressDone++ }
}

type recordedAlert struct {
	scope alert.Scope
	kind  alert.Kind
	msg   string
}

type fakeNotifier struct {
	alerts []recordedAlert
}

func (f *fakeNotifier) Inline(kind alert.Kind, msg string) {
	f.alerts = append(f.alerts, recordedAlert{alert.ScopeInline, kind, msg})
}

func (f *fakeNotifier) Global(kind alert.Kind, msg string) {
	f.alerts = append(f.alerts, recordedAlert{alert.ScopeGlobal, kind, msg})
}

func (f *fakeNotifier) Toast(kind alert.Kind, msg string) {
	f.alerts = append(f.alerts, recordedAlert{alert.ScopeToast, kind, msg})
}

func newTestController(store *fakeStore, dialogs *fakeDialogs, notifier *fakeNotifier) *Controller {
	return New(store, catalog.NewCollectionView(), &catalog.Draft{}, notifier,
		eventbus.New(zerolog.Nop()), dialogs, zerolog.Nop())
}

func TestRefreshProductsReplacesViewAndPublishes(t *testing.T) {
	store := &fakeStore{products: []models.Product{
		{ID: "1", Title: "Banana"},
		{ID: "2", Title: "apple"},
	}}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})

	var refreshed []eventbus.Event
	bus := ctrl.bus
	bus.Subscribe(eventbus.EventProductsRefreshed, func(e eventbus.Event) {
		refreshed = append(refreshed, e)
	})

	cards, err := ctrl.RefreshProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.Empty(t, ctrl.Placeholder())
	require.Len(t, refreshed, 1)
	assert.Equal(t, 2, refreshed[0].Count)
}

func TestRefreshProductsEmptyShowsPlaceholder(t *testing.T) {
	ctrl := newTestController(&fakeStore{}, &fakeDialogs{}, &fakeNotifier{})

	cards, err := ctrl.RefreshProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Equal(t, "no products found", ctrl.Placeholder())
}

func TestRefreshProductsFailureShowsServerMessage(t *testing.T) {
	store := &fakeStore{listErr: &storeapi.APIError{Op: "list products", Message: "store offline"}}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})

	_, err := ctrl.RefreshProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "store offline", ctrl.Placeholder())
	assert.Zero(t, ctrl.View().Len())
}

func TestSetFilterNeverRefetches(t *testing.T) {
	store := &fakeStore{products: []models.Product{
		{ID: "1", Title: "Red shirt", CategoryID: "7"},
		{ID: "2", Title: "Blue shirt", CategoryID: "9"},
	}}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})
	_, err := ctrl.RefreshProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.listCalls)

	cards := ctrl.SetFilter(catalog.FilterState{Query: "red", Sort: catalog.SortNewest})
	assert.Equal(t, 1, store.listCalls)
	require.Len(t, cards, 2)
	assert.True(t, cards[0].Visible)
	assert.False(t, cards[1].Visible)
}

func TestSetFilterRejectsUnknownWidgetValue(t *testing.T) {
	store := &fakeStore{
		products:   []models.Product{{ID: "1", Title: "Red shirt", CategoryID: "7"}},
		categories: []models.Category{{ID: "7", Name: "Shirts"}},
	}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})
	_, err := ctrl.RefreshProducts(context.Background())
	require.NoError(t, err)
	require.NoError(t, ctrl.RefreshCategories(context.Background()))

	cards := ctrl.SetFilter(catalog.FilterState{CategoryID: "999"})

	assert.Equal(t, catalog.FilterAll, ctrl.Filter().CategoryID)
	assert.Equal(t, catalog.FilterAll, ctrl.FilterCategories().Selected())
	require.Len(t, cards, 1)
	assert.True(t, cards[0].Visible, "unknown id never narrows the grid")
}

func TestRefreshCategoriesRepopulatesBothWidgets(t *testing.T) {
	store := &fakeStore{categories: []models.Category{
		{ID: "1", Name: "Shoes"},
		{ID: "2", Name: "Hats"},
	}}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})
	require.NoError(t, ctrl.RefreshCategories(context.Background()))

	assert.Len(t, ctrl.EditCategories().Options(), 2)
	assert.Len(t, ctrl.FilterCategories().Options(), 2)
}

func TestRefreshCategoriesDropsStaleFilterValue(t *testing.T) {
	store := &fakeStore{categories: []models.Category{{ID: "1", Name: "Shoes"}}}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})
	require.NoError(t, ctrl.RefreshCategories(context.Background()))
	ctrl.SetFilter(catalog.FilterState{CategoryID: "1"})

	store.categories = []models.Category{{ID: "2", Name: "Hats"}}
	require.NoError(t, ctrl.RefreshCategories(context.Background()))

	assert.Empty(t, ctrl.Filter().CategoryID)
}

func TestLoadForEditFillsDraft(t *testing.T) {
	store := &fakeStore{
		product: &models.Product{
			ID:         "42",
			Title:      "Gadget",
			Price:      "10.00",
			CategoryID: "7",
			BrandID:    "3",
			Keywords:   []string{"a", "b"},
			Images:     []string{"gadget.jpg"},
		},
		categories: []models.Category{{ID: "7", Name: "Gadgets"}},
		brands:     []models.Brand{{ID: "3", Name: "Acme"}},
	}
	ctrl := newTestController(store, &fakeDialogs{}, &fakeNotifier{})
	require.NoError(t, ctrl.RefreshCategories(context.Background()))
	require.NoError(t, ctrl.RefreshBrands(context.Background()))

	require.NoError(t, ctrl.LoadForEdit(context.Background(), "42"))

	assert.True(t, ctrl.SurfaceOpen())
	assert.True(t, ctrl.Draft().Editing())
	assert.Equal(t, "10.00", ctrl.Draft().Price)
	assert.True(t, ctrl.Draft().Valid(), "edit mode is valid without new files")
	assert.Equal(t, "7", ctrl.EditCategories().Selected())
	assert.Equal(t, "3", ctrl.EditBrands().Selected())
}

func TestLoadForEditFailureLeavesDraftAlone(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{getErr: &storeapi.TransportError{Op: "get product", Err: context.DeadlineExceeded}}
	ctrl := newTestController(store, &fakeDialogs{}, notifier)
	ctrl.Draft().Title = "in progress"

	err := ctrl.LoadForEdit(context.Background(), "42")
	require.Error(t, err)
	assert.False(t, ctrl.SurfaceOpen())
	assert.Equal(t, "in progress", ctrl.Draft().Title)
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, alert.ScopeInline, notifier.alerts[0].scope)
	assert.Equal(t, alert.KindError, notifier.alerts[0].kind)
}

func TestSaveInvalidDraftSendsNothing(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	ctrl := newTestController(store, &fakeDialogs{}, notifier)

	err := ctrl.Save(context.Background())
	assert.ErrorIs(t, err, ErrDraftInvalid)
	assert.Empty(t, store.savedSubs)
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, alert.KindWarning, notifier.alerts[0].kind)
}

func TestSaveSuccessResetsAndAnnounces(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	ctrl := newTestController(store, &fakeDialogs{}, notifier)
	ctrl.WireRefresh()

	draft := ctrl.Draft()
	draft.Title = "Widget"
	draft.Price = "9.99"
	draft.CategoryID = "1"
	draft.BrandID = "2"
	admitted := draft.AdmitFiles([]models.FileUpload{{Name: "w.png", ContentType: "image/png"}})
	require.Equal(t, 1, admitted)
	ctrl.OpenCreate()
	// OpenCreate wipes the draft; refill it the way a form round trip would.
	draft.Title = "Widget"
	draft.Price = "9.99"
	draft.CategoryID = "1"
	draft.BrandID = "2"
	draft.AdmitFiles([]models.FileUpload{{Name: "w.png", ContentType: "image/png"}})

	require.NoError(t, ctrl.Save(context.Background()))

	require.Len(t, store.savedSubs, 1)
	assert.Empty(t, store.savedSubs[0].ProductID, "create submits no product id")
	assert.False(t, ctrl.SurfaceOpen())
	assert.False(t, ctrl.Draft().Valid(), "draft reset after save")
	assert.Equal(t, 1, store.listCalls, "save triggers a wired refresh")
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, alert.ScopeGlobal, notifier.alerts[0].scope)
	assert.Equal(t, alert.KindSuccess, notifier.alerts[0].kind)
}

func TestSaveFailureKeepsDraftAndSurface(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{saveErr: &storeapi.APIError{Op: "save product", Message: "duplicate title"}}
	ctrl := newTestController(store, &fakeDialogs{}, notifier)

	ctrl.OpenCreate()
	draft := ctrl.Draft()
	draft.Title = "Widget"
	draft.Price = "9.99"
	draft.CategoryID = "1"
	draft.BrandID = "2"
	draft.AdmitFiles([]models.FileUpload{{Name: "w.png", ContentType: "image/png"}})

	err := ctrl.Save(context.Background())
	require.Error(t, err)
	assert.True(t, ctrl.SurfaceOpen())
	assert.Equal(t, "Widget", ctrl.Draft().Title)
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, "duplicate title", notifier.alerts[0].msg)
}

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	store := &fakeStore{}
	dialogs := &fakeDialogs{confirm: false}
	ctrl := newTestController(store, dialogs, &fakeNotifier{})

	require.NoError(t, ctrl.Delete(context.Background(), "42"))
	assert.Equal(t, 1, dialogs.confirmAsked)
	assert.Empty(t, store.deletedIDs)
	assert.Zero(t, dialogs.progressOpen)
}

func TestDeleteSuccess(t *testing.T) {
	notifier := &fakeNotifier{}
	store := &fakeStore{}
	dialogs := &fakeDialogs{confirm: true}
	ctrl := newTestController(store, dialogs, notifier)

	var deleted []string
	ctrl.bus.Subscribe(eventbus.EventProductDeleted, func(e eventbus.Event) {
		deleted = append(deleted, e.ProductID)
	})

	require.NoError(t, ctrl.Delete(context.Background(), "42"))
	assert.Equal(t, []string{"42"}, store.deletedIDs)
	assert.Equal(t, []string{"42"}, deleted)
	assert.Equal(t, 1, dialogs.progressDone, "progress indicator closed")
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, alert.ScopeToast, notifier.alerts[0].scope)
	assert.Equal(t, alert.KindSuccess, notifier.alerts[0].kind)
}

func TestDeleteFailuresReadIdentically(t *testing.T) {
	for name, storeErr := range map[string]error{
		"transport":   &storeapi.TransportError{Op: "delete product", Err: context.DeadlineExceeded},
		"application": &storeapi.APIError{Op: "delete product", Message: "product is referenced by open orders"},
	} {
		t.Run(name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			store := &fakeStore{deleteErr: storeErr}
			ctrl := newTestController(store, &fakeDialogs{confirm: true}, notifier)

			require.Error(t, ctrl.Delete(context.Background(), "42"))
			require.Len(t, notifier.alerts, 1)
			assert.Equal(t, alert.ScopeToast, notifier.alerts[0].scope)
			assert.Equal(t, "failed to delete product", notifier.alerts[0].msg)
		})
	}
}
