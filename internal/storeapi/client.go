package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"shopadmin/pkg/models"

	"github.com/rs/zerolog"
)

// The legacy store exposes one action script per operation.
const (
	pathListProducts   = "/actions/get_products.php"
	pathGetProduct     = "/actions/get_single_product.php"
	pathSaveProduct    = "/actions/save_product.php"
	pathDeleteProduct  = "/actions/delete_product.php"
	pathListCategories = "/actions/get_categories.php"
	pathListBrands     = "/actions/get_brands.php"
	pathBulkImport     = "/actions/bulk_import.php"
	pathBulkTemplate   = "/actions/bulk_template.php"
)

// DefaultTimeout bounds every upstream call.
const DefaultTimeout = 30 * time.Second

// Client talks to the legacy product store. All variance in the store's
// response shapes is normalized before anything leaves this package.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: log,
	}
}

// ListProducts fetches up to limit products in the store's order.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	const op = "list products"

	query := url.Values{"limit": {strconv.Itoa(limit)}}
	env, err := c.get(ctx, op, pathListProducts, query)
	if err != nil {
		return nil, err
	}

	var wires []productWire
	c.decodeData(op, env.Data, &wires)

	products := make([]models.Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.normalize())
	}
	return products, nil
}

// GetProduct fetches one product by identifier.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "fetch product"

	query := url.Values{"product_id": {id}}
	env, err := c.get(ctx, op, pathGetProduct, query)
	if err != nil {
		return nil, err
	}

	var w productWire
	c.decodeData(op, env.Data, &w)
	product := w.normalize()
	return &product, nil
}

// SaveProduct submits the draft as multipart form data. The store
// decides create-vs-update from the presence of product_id; the client
// always posts to the one save action.
func (c *Client) SaveProduct(ctx context.Context, sub models.ProductSubmission) error {
	const op = "save product"

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"product_title":    sub.Title,
		"product_price":    sub.Price,
		"product_cat":      sub.CategoryID,
		"product_brand":    sub.BrandID,
		"product_desc":     sub.Description,
		"product_keywords": sub.Keywords,
	}
	if sub.ProductID != "" {
		fields["product_id"] = sub.ProductID
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}
	for _, img := range sub.Images {
		part, err := createFilePart(form, "images[]", img.Name, img.ContentType)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		if _, err := part.Write(img.Data); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}
	if err := form.Close(); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	_, err := c.post(ctx, op, pathSaveProduct, form.FormDataContentType(), &body)
	return err
}

// DeleteProduct removes one product by identifier.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	const op = "delete product"

	form := url.Values{"product_id": {id}}
	_, err := c.post(ctx, op, pathDeleteProduct, "application/x-www-form-urlencoded",
		bytes.NewBufferString(form.Encode()))
	return err
}

// ListCategories fetches the category reference list, skipping nothing:
// incomplete entries are filtered by the selectors, not here.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "list categories"

	env, err := c.get(ctx, op, pathListCategories, nil)
	if err != nil {
		return nil, err
	}

	var wires []categoryWire
	c.decodeData(op, env.Data, &wires)

	categories := make([]models.Category, 0, len(wires))
	for _, w := range wires {
		categories = append(categories, w.normalize())
	}
	return categories, nil
}

// ListBrands fetches the brand reference list.
func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	const op = "list brands"

	query := url.Values{"type": {"all"}}
	env, err := c.get(ctx, op, pathListBrands, query)
	if err != nil {
		return nil, err
	}

	var wires []brandWire
	c.decodeData(op, env.Data, &wires)

	brands := make([]models.Brand, 0, len(wires))
	for _, w := range wires {
		brands = append(brands, w.normalize())
	}
	return brands, nil
}

// BulkImport uploads one packaged file and returns the aggregate report.
func (c *Client) BulkImport(ctx context.Context, filename string, file io.Reader) (*models.ImportReport, error) {
	const op = "bulk import"

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("bulk_file", filename)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if err := form.Close(); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	env, err := c.post(ctx, op, pathBulkImport, form.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	return &models.ImportReport{
		SuccessCount: int(env.SuccessCount),
		ErrorCount:   int(env.ErrorCount),
		Errors:       env.Errors,
		Warnings:     env.Warnings,
	}, nil
}

// TemplateURL is where the browser is sent to download the bulk import
// template when the gateway does not serve its own.
func (c *Client) TemplateURL() string {
	return c.baseURL + pathBulkTemplate
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) (*envelope, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return c.do(op, req)
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(op, req)
}

// do runs a request and sorts the outcome into the two error tiers: a
// response whose body cannot be parsed is a transport failure, a parsed
// body whose status signals failure is an application failure carrying
// the server's message. The body is parsed even on non-2xx statuses so a
// server-provided message is not lost.
func (c *Client) do(op string, req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.log.Debug().Str("op", op).Int("status", resp.StatusCode).Msg("unparsable store response")
		return nil, &TransportError{Op: op, Err: fmt.Errorf("status %d: unparsable response", resp.StatusCode)}
	}

	if !env.succeeded() {
		if env.Message != "" {
			return nil, &APIError{Op: op, Message: env.Message}
		}
		return nil, &TransportError{Op: op, Err: fmt.Errorf("status %d: request failed", resp.StatusCode)}
	}
	return &env, nil
}

// decodeData unpacks the data field, defaulting to zero values on
// malformed content rather than failing hard.
func (c *Client) decodeData(op string, data json.RawMessage, out any) {
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Debug().Str("op", op).Err(err).Msg("malformed data field, using defaults")
	}
}

func createFilePart(form *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	return form.CreatePart(header)
}
