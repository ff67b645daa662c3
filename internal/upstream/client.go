// Package upstream talks to the real commerce API on behalf of the BFF.
// The API's JSON is loosely shaped (field names drifted across versions),
// so extraction is tolerant: the first matching field name wins and numbers
// masquerading as strings are accepted.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mayorista-bff/internal/domain"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

func New(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// StatusError carries a non-2xx upstream response so handlers can relay the
// status and body as-is.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Code)
}

// LoginResult is the distilled upstream login response.
type LoginResult struct {
	Token  string
	Role   string
	UserID string
	Raw    json.RawMessage
}

// ErrNoToken is returned when the upstream login succeeded but carried no
// recognizable token field.
var ErrNoToken = fmt.Errorf("upstream login response carried no token")

// Login exchanges credentials for a bearer token. Token, role and user id
// are looked up under every field name the API has been seen using.
func (c *Client) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	body := map[string]string{"userName": userName, "password": password}
	raw, err := c.postJSON(ctx, "", "Usuarios/Login", body)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}

	token := pickString(fields, "Token", "token", "accessToken", "AccessToken")
	if token == "" {
		return nil, ErrNoToken
	}

	return &LoginResult{
		Token:  token,
		Role:   pickString(fields, "RolUsuario", "rolUsuario", "role", "Role"),
		UserID: pickString(fields, "IdUsuario", "idUsuario", "userId", "UserId"),
		Raw:    raw,
	}, nil
}

// ProductQuery mirrors the storefront's product listing filters.
type ProductQuery struct {
	Text          string
	OnlyAvailable bool
	OnlyOffers    bool
	PageNumber    int
	PageSize      int
}

// ProductPage is one page of the upstream catalog: the raw JSON for
// passthrough plus the records distilled for cart stock sync.
type ProductPage struct {
	Raw      json.RawMessage
	Products []domain.Product
}

// Products fetches a catalog page. The upstream replaces PageSize 0 with its
// own maximum, so 0 means "everything".
func (c *Client) Products(ctx context.Context, token, userID string, q ProductQuery) (*ProductPage, error) {
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize < 0 {
		q.PageSize = 50
	}
	body := map[string]interface{}{
		"IdUsuario":      userID,
		"TextoBuscador":  q.Text,
		"SoloDisponible": q.OnlyAvailable,
		"SoloOfertas":    q.OnlyOffers,
		"FiltrosProductos": map[string]int{
			"PageNumber": q.PageNumber,
			"PageSize":   q.PageSize,
		},
	}
	raw, err := c.postJSON(ctx, token, "Productos/ObtenerProductos", body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Productos []map[string]json.RawMessage `json:"Productos"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	products := make([]domain.Product, 0, len(envelope.Productos))
	for _, rec := range envelope.Productos {
		p := productFromRecord(rec)
		if p.ID == "" {
			continue
		}
		products = append(products, p)
	}
	return &ProductPage{Raw: raw, Products: products}, nil
}

// FilterLists relays the catalog filter lists (rubros, brands, ...).
func (c *Client) FilterLists(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, token, "Productos/ObtenerListasFiltros")
}

// BannerInfo relays the storefront banner configuration.
func (c *Client) BannerInfo(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, token, "Productos/ObtenerBannerInfo")
}

// Pedidos fetches the order history for a customer dni.
func (c *Client) Pedidos(ctx context.Context, token, dni string) (json.RawMessage, error) {
	return c.get(ctx, token, "sistema/pedidos?dni="+url.QueryEscape(dni))
}

// Customer fetches the account record (balance etc.) for userID.
func (c *Client) Customer(ctx context.Context, token, userID string) (json.RawMessage, error) {
	return c.postJSON(ctx, token, "Usuarios/ObtenerCliente", map[string]string{"IdUsuario": userID})
}

func productFromRecord(rec map[string]json.RawMessage) domain.Product {
	return domain.Product{
		ID:        pickString(rec, "Codigo", "codigo", "Id", "id", "IdProducto"),
		Code:      pickString(rec, "Codigo", "codigo"),
		Name:      pickString(rec, "Descripcion", "Nombre", "Producto", "Desc"),
		Brand:     pickString(rec, "Marca", "marca"),
		Category:  pickString(rec, "Rubro", "rubro"),
		UnitPrice: pickNumber(rec, "Precio", "PrecioFinal", "Importe", "PrecioLista"),
		Stock:     int(pickNumber(rec, "Stock", "stock")),
		Available: pickBool(rec, "Disponible", "disponible"),
		OnSale:    pickBool(rec, "Oferta", "oferta"),
	}
}

func pickString(fields map[string]json.RawMessage, names ...string) string {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func pickNumber(fields map[string]json.RawMessage, names ...string) float64 {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func pickBool(fields map[string]json.RawMessage, names ...string) bool {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b
		}
	}
	return false
}

func (c *Client) postJSON(ctx context.Context, token, path string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *Client) get(ctx context.Context, token, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token string) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Printf("upstream: %s %s error=%v", req.Method, req.URL.Path, err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("upstream: %s %s status=%d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: raw}
	}
	return raw, nil
}
