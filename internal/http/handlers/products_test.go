package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopadmin/internal/alert"
	"shopadmin/internal/catalog"
	"shopadmin/internal/catalogsync"
	"shopadmin/internal/eventbus"
	"shopadmin/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	products   []models.Product
	deletedIDs []string
}

func (s *stubStore) ListProducts(context.Context, int) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	return &models.Product{ID: id, Title: "Gadget", Price: "10.00", CategoryID: "1", BrandID: "2"}, nil
}

func (s *stubStore) SaveProduct(context.Context, models.ProductSubmission) error { return nil }

func (s *stubStore) DeleteProduct(_ context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubStore) ListCategories(context.Context) ([]models.Category, error) { return nil, nil }
func (s *stubStore) ListBrands(context.Context) ([]models.Brand, error)        { return nil, nil }

type noDialogs struct{}

func (noDialogs) Confirm(string) bool    { return false }
func (noDialogs) Progress(string) func() { return func() {} }

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newTestHandler(store *stubStore) (*ProductHandler, *echo.Echo) {
	log := zerolog.Nop()
	ctrl := catalogsync.New(store, catalog.NewCollectionView(), catalog.NewDraft(),
		alert.NewPresenter(log), eventbus.New(log), noDialogs{}, log)
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return NewProductHandler(ctrl, log), e
}

func TestSetFilterHidesNonMatches(t *testing.T) {
	store := &stubStore{products: []models.Product{
		{ID: "1", Title: "Red shirt"},
		{ID: "2", Title: "Blue shirt"},
	}}
	h, e := newTestHandler(store)
	_, err := h.ctrl.RefreshProducts(context.Background())
	require.NoError(t, err)

	body := `{"query":"red","sort":"alpha"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/filter", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SetFilter(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"visible":true`)
	assert.Contains(t, rec.Body.String(), `"visible":false`)
}

func TestSetFilterRejectsUnknownSort(t *testing.T) {
	h, e := newTestHandler(&stubStore{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/filter",
		strings.NewReader(`{"sort":"sideways"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SetFilter(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDraftRejectsOversizedDescription(t *testing.T) {
	h, e := newTestHandler(&stubStore{})

	body := `{"title":"Shirt","description":"` + strings.Repeat("x", 301) + `"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/draft", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.UpdateDraft(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, h.ctrl.Draft().Title, "rejected update leaves the draft untouched")
}

func TestDeleteWithoutConfirmSendsNothing(t *testing.T) {
	store := &stubStore{}
	h, e := newTestHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cancelled")
	assert.Empty(t, store.deletedIDs)
}

func TestDeleteConfirmed(t *testing.T) {
	store := &stubStore{}
	h, e := newTestHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/42?confirm=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"42"}, store.deletedIDs)
}

func TestEditLoadsDraft(t *testing.T) {
	h, e := newTestHandler(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42/edit", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Edit(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"product_id":"42"`)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
}
