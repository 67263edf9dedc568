package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-api/internal/application/auth"
	"github.com/jhoicas/shop-api/internal/application/cart"
	"github.com/jhoicas/shop-api/internal/application/catalog"
	"github.com/jhoicas/shop-api/internal/application/ports"
	"github.com/jhoicas/shop-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/shop-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/shop-api/pkg/jwt"
	"github.com/jhoicas/shop-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testJWTSecret = "test-secret-key-for-unit-tests"

// buildTestApp arma la app completa sobre el almacén en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop()
	s := memory.NewStore()
	authUC := auth.NewAuthUseCase(s, s.Users(), s.Profiles(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 60, Issuer: "shop-api-test",
	}, log)
	app := apphttp.NewApp("shop-api-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalog.NewCatalogUseCase(s.Products(), ports.NopPublisher{}, log),
		CartUC:    cart.NewCartUseCase(s, s.Carts(), s.CartItems(), s.Products(), log),
		Log:       log,
	})
	return app
}

// call lanza la petición y decodifica el cuerpo JSON (si lo hay) en out.
func call(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, out), string(raw))
		}
	}
	return resp.StatusCode
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Message string `json:"message"`
}

type errorBody struct {
	Code   string              `json:"code"`
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors"`
}

type productBody struct {
	ID            string `json:"id"`
	Owner         string `json:"owner"`
	Slug          string `json:"slug"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

type cartBody struct {
	ID    string `json:"id"`
	Items []struct {
		ID       string      `json:"id"`
		Quantity int         `json:"quantity"`
		Subtotal string      `json:"subtotal"`
		Product  productBody `json:"product"`
	} `json:"items"`
	TotalItems int    `json:"total_items"`
	TotalPrice string `json:"total_price"`
}

func register(t *testing.T, app *fiber.App, username, role string) authBody {
	t.Helper()
	var out authBody
	status := call(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": username, "email": username + "@example.com",
		"password": "s3cret-pass", "password2": "s3cret-pass", "role": role,
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, out.Token)
	return out
}

func createProduct(t *testing.T, app *fiber.App, token string, body fiber.Map) productBody {
	t.Helper()
	var out struct {
		Message string      `json:"message"`
		Product productBody `json:"product"`
	}
	status := call(t, app, http.MethodPost, "/products/add", token, body, &out)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Product created successfully.", out.Message)
	return out.Product
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_OwnerCreaYClienteCompra(t *testing.T) {
	app := buildTestApp(t)

	owner := register(t, app, "dueno", "owner")
	assert.Equal(t, "Account created successfully.", owner.Message)
	customer := register(t, app, "cliente", "customer")

	product := createProduct(t, app, owner.Token, fiber.Map{
		"name": "Café de Colombia", "description": "Tostión media", "price": "9.99", "stock_quantity": 10,
	})
	assert.Equal(t, "cafe-de-colombia", product.Slug)
	assert.Equal(t, "9.99", product.Price)

	var listed []productBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/products", "", nil, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, product.ID, listed[0].ID)

	var view cartBody
	status := call(t, app, http.MethodPost, "/cart/add", customer.Token, fiber.Map{"product_id": product.ID, "quantity": 3}, &view)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, "29.97", view.Items[0].Subtotal)
	assert.Equal(t, 1, view.TotalItems)
	assert.Equal(t, "29.97", view.TotalPrice)

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/cart", customer.Token, nil, &view))
	assert.Equal(t, "29.97", view.TotalPrice)

	itemID := view.Items[0].ID
	require.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/cart/items/"+itemID, customer.Token, nil, nil))
	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodDelete, "/cart/items/"+itemID, customer.Token, nil, nil))

	var empty cartBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/cart", customer.Token, nil, &empty))
	assert.Empty(t, empty.Items)
	assert.Equal(t, "0.00", empty.TotalPrice)
}

func TestEscenario_RegistroLoginYDosAgregados(t *testing.T) {
	app := buildTestApp(t)
	owner := register(t, app, "dueno", "owner")
	product := createProduct(t, app, owner.Token, fiber.Map{"name": "P", "price": "9.99", "stock_quantity": 50})

	register(t, app, "cliente", "customer")
	var login authBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"username": "cliente", "password": "s3cret-pass"}, &login))

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/cart/add", login.Token, fiber.Map{"product_id": product.ID, "quantity": 2}, nil))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/cart/add", login.Token, fiber.Map{"product_id": product.ID, "quantity": 1}, nil))

	var view cartBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/cart", login.Token, nil, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 1, view.TotalItems)
	assert.Equal(t, "29.97", view.TotalPrice)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ValidacionDevuelveErroresPorCampo(t *testing.T) {
	app := buildTestApp(t)
	var out errorBody
	status := call(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"username": "ana", "password": "s3cret-pass", "password2": "otra-clave", "role": "customer",
	}, &out)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeValidation, out.Code)
	assert.Equal(t, []string{"Passwords do not match."}, out.Errors["password"])
}

func TestRegister_CuerpoMalFormado(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_CredencialesInvalidasEs400(t *testing.T) {
	app := buildTestApp(t)
	register(t, app, "ana", "customer")

	var ok authBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"username": "ana", "password": "s3cret-pass"}, &ok))
	assert.NotEmpty(t, ok.Token)
	assert.Equal(t, "customer", ok.User.Role)

	var out errorBody
	status := call(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"username": "ana", "password": "incorrecta"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeAuthentication, out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireProfile(t *testing.T) {
	app := buildTestApp(t)
	owner := register(t, app, "dueno", "owner")
	customer := register(t, app, "cliente", "customer")
	body := fiber.Map{"name": "Pan", "price": "1.50", "stock_quantity": 1}

	t.Run("sin token", func(t *testing.T) {
		var out errorBody
		assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodPost, "/products/add", "", body, &out))
		assert.Equal(t, apphttp.CodeUnauthorized, out.Code)
	})
	t.Run("token inválido", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodPost, "/products/add", "token.invalido.aqui", body, nil))
	})
	t.Run("cliente no crea productos", func(t *testing.T) {
		var out errorBody
		assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/products/add", customer.Token, body, &out))
		assert.Equal(t, apphttp.CodeForbidden, out.Code)
	})
	t.Run("owner no agrega al carrito", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/cart/add", owner.Token, fiber.Map{"product_id": "x"}, nil))
	})
	t.Run("owner ve un carrito vacío", func(t *testing.T) {
		var view cartBody
		assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/cart", owner.Token, nil, &view))
		assert.Equal(t, "0.00", view.TotalPrice)
	})
	t.Run("token con rol falsificado", func(t *testing.T) {
		forged, err := pkgjwt.Generate(testJWTSecret, customer.User.ID, "owner", "shop-api-test", 60)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/products/add", forged, body, nil))
	})
	t.Run("usuario inexistente", func(t *testing.T) {
		tok, err := pkgjwt.Generate(testJWTSecret, "00000000-0000-0000-0000-000000000009", "owner", "shop-api-test", 60)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/cart", tok, nil, nil))
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_Errores(t *testing.T) {
	app := buildTestApp(t)
	owner := register(t, app, "dueno", "owner")

	var out errorBody
	status := call(t, app, http.MethodPost, "/products/add", owner.Token, fiber.Map{"name": "Pan", "price": "1.999"}, &out)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out.Errors, "price")

	createProduct(t, app, owner.Token, fiber.Map{"name": "Pan", "slug": "pan", "price": "1.50"})
	status = call(t, app, http.MethodPost, "/products/add", owner.Token, fiber.Map{"name": "Pan", "slug": "pan", "price": "1.50"}, &out)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apphttp.CodeConflict, out.Code)

	second := createProduct(t, app, owner.Token, fiber.Map{"name": "Pan", "price": 2})
	assert.Equal(t, "pan-2", second.Slug)
}

func TestReduceStock(t *testing.T) {
	app := buildTestApp(t)
	owner := register(t, app, "dueno", "owner")
	intruder := register(t, app, "otro", "owner")
	product := createProduct(t, app, owner.Token, fiber.Map{"name": "Café", "price": "9.99", "stock_quantity": 5})
	path := "/products/" + product.ID + "/reduce-stock"

	var out struct {
		Product productBody `json:"product"`
	}
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, path, owner.Token, fiber.Map{"quantity": 2}, &out))
	assert.Equal(t, 3, out.Product.StockQuantity)

	var eb errorBody
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, path, owner.Token, fiber.Map{"quantity": 4}, &eb))
	assert.Equal(t, apphttp.CodeInsufficientStock, eb.Code)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPost, path, intruder.Token, fiber.Map{"quantity": 1}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, path, owner.Token, fiber.Map{"quantity": 0}, nil))

	var listed []productBody
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/products", "", nil, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, 3, listed[0].StockQuantity, "el intento fallido no cambió el stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_Errores(t *testing.T) {
	app := buildTestApp(t)
	owner := register(t, app, "dueno", "owner")
	ana := register(t, app, "ana", "customer")
	beto := register(t, app, "beto", "customer")
	product := createProduct(t, app, owner.Token, fiber.Map{"name": "Café", "price": "9.99"})

	var eb errorBody
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/cart/add", ana.Token, fiber.Map{"quantity": 1}, &eb))
	assert.Contains(t, eb.Errors, "product_id")

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPost, "/cart/add", ana.Token,
		fiber.Map{"product_id": "00000000-0000-0000-0000-000000000123"}, nil))

	var view cartBody
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/cart/add", ana.Token, fiber.Map{"product_id": product.ID, "quantity": 2}, &view))
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/cart/add", ana.Token, fiber.Map{"product_id": product.ID, "quantity": 3}, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodDelete, "/cart/items/"+view.Items[0].ID, beto.Token, nil, nil),
		"beto no puede borrar ítems de ana")
}

func TestRutaInexistente_DevuelveJSON(t *testing.T) {
	app := buildTestApp(t)
	var eb errorBody
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/no-existe", "", nil, &eb))
	assert.Equal(t, apphttp.CodeNotFound, eb.Code)
}
