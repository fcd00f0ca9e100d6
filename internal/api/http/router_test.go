package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/item-lending/internal/api/http"
	"github.com/spec-kit/item-lending/internal/api/http/handlers"
	"github.com/spec-kit/item-lending/internal/auth"
	"github.com/spec-kit/item-lending/internal/config"
	"github.com/spec-kit/item-lending/internal/events"
	"github.com/spec-kit/item-lending/internal/observability"
	"github.com/spec-kit/item-lending/internal/platform/keylock"
	"github.com/spec-kit/item-lending/internal/repository"
	"github.com/spec-kit/item-lending/internal/service"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	locks := keylock.New()
	userRepo := repository.NewUserRepository()
	loanRepo := repository.NewLoanRepository()
	loanCfg := config.LoanConfig{DateLayout: "2006-01-02"}

	users := service.NewUserService(userRepo, loanRepo, locks)
	catalog := service.NewCatalogService(service.CatalogDependencies{UserRepo: userRepo, Locks: locks, Dispatcher: dispatcher})
	loans := service.NewLoanService(service.LoanDependencies{UserRepo: userRepo, LoanRepo: loanRepo, Locks: locks, Dispatcher: dispatcher, Config: loanCfg})
	listing := service.NewListingService(userRepo, locks)
	service.NewActivityService(dispatcher, logger, metrics, config.ActivityConfig{Enabled: true}).RegisterHandlers()

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5}, users)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("item-lending-registry", "test", users, metrics),
		Users:          handlers.NewUsersHandler(authService, users),
		Items:          handlers.NewItemsHandler(catalog, loans, loanCfg.DateLayout),
		Loans:          handlers.NewLoansHandler(loans, loanCfg.DateLayout),
		Listing:        handlers.NewListingHandler(listing),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App, name, phone string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/users", "", map[string]string{
		"name": name, "phone": phone, "email": name + "@example.com",
	})
	require.Equal(t, http.StatusCreated, status)

	var data struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Auth.Token)
	return data.Auth.Token
}

func addBoardGame(t *testing.T, app *fiber.App, token, name string, price float64) {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/users/Ana/555-0100/items", token, map[string]any{
		"kind": "board-game", "name": name, "price": price,
	})
	require.Equal(t, http.StatusCreated, status, "%+v", env.Error)
}

func Test_Health(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func Test_Users_RegisterDuplicate(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Ana", "555-0100")

	status, env := call(t, app, http.MethodPost, "/users", "", map[string]string{
		"name": "Ana", "phone": "555-0100", "email": "x@example.com",
	})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "OPERATION_NOT_ALLOWED", env.Error.Code)
}

func Test_Items_RequireOwner(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "Ana", "555-0100")
	boToken := register(t, app, "Bo", "555-0200")

	status, env := call(t, app, http.MethodPost, "/users/Ana/555-0100/items", "", map[string]any{"kind": "board_game", "name": "Catan", "price": 50})
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env = call(t, app, http.MethodPost, "/users/Ana/555-0100/items", boToken, map[string]any{"kind": "board_game", "name": "Catan", "price": 50})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func Test_Items_AttributeRoundTrip(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "Ana", "555-0100")

	status, env := call(t, app, http.MethodPost, "/users/Ana/555-0100/items", token, map[string]any{
		"kind": "electronic_game", "name": "Halo", "price": 120, "platform": "XBOX360",
	})
	require.Equal(t, http.StatusCreated, status)
	var item struct {
		Kind        string `json:"kind"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "ELECTRONIC_GAME", item.Kind)
	assert.Equal(t, "ELECTRONIC GAME: Halo, $120.00, Available, XBOX360", item.Description)

	status, env = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/Halo/attributes/season", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ITEM_NOT_FOUND", env.Error.Code)

	status, _ = call(t, app, http.MethodPut, "/users/Ana/555-0100/items/Halo/attributes/platform", token, map[string]string{"value": "PC"})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/Halo/attributes/platform", "", nil)
	require.Equal(t, http.StatusOK, status)
	var attr struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &attr))
	assert.Equal(t, "PC", attr.Value)
}

func Test_Loans_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	anaToken := register(t, app, "Ana", "555-0100")
	boToken := register(t, app, "Bo", "555-0200")
	addBoardGame(t, app, anaToken, "X", 10)

	ana := map[string]string{"name": "Ana", "phone": "555-0100"}
	bo := map[string]string{"name": "Bo", "phone": "555-0200"}
	loan := map[string]any{"owner": ana, "borrower": bo, "item": "X", "loan_date": "2024-01-10", "period_days": 7}

	// only the owner may lend
	status, _ := call(t, app, http.MethodPost, "/loans", boToken, loan)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := call(t, app, http.MethodPost, "/loans", anaToken, loan)
	require.Equal(t, http.StatusCreated, status, "%+v", env.Error)
	var created struct {
		ID      string `json:"id"`
		DueDate string `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2024-01-17", created.DueDate)

	status, env = call(t, app, http.MethodPost, "/loans", anaToken, loan)
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "OPERATION_NOT_ALLOWED", env.Error.Code)

	status, env = call(t, app, http.MethodPost, "/loans/return", boToken, map[string]any{
		"owner": ana, "borrower": bo, "item": "X", "loan_date": "2024-01-09", "return_date": "2024-01-15",
	})
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "LOAN_NOT_FOUND", env.Error.Code)

	status, _ = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/X/loan", "", nil)
	assert.Equal(t, http.StatusOK, status)

	// the borrower may record the return
	status, env = call(t, app, http.MethodPost, "/loans/return", boToken, map[string]any{
		"owner": ana, "borrower": bo, "item": "X", "loan_date": "2024-01-10", "return_date": "2024-01-15",
	})
	require.Equal(t, http.StatusOK, status, "%+v", env.Error)

	status, _ = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/X/loan", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/X/loans", "", nil)
	require.Equal(t, http.StatusOK, status)
	var history []struct {
		ReturnDate *string `json:"return_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	require.NotNil(t, history[0].ReturnDate)
	assert.Equal(t, "2024-01-15", *history[0].ReturnDate)
}

func Test_Loans_MalformedDate(t *testing.T) {
	app := newTestApp(t)
	anaToken := register(t, app, "Ana", "555-0100")
	register(t, app, "Bo", "555-0200")
	addBoardGame(t, app, anaToken, "X", 10)

	status, env := call(t, app, http.MethodPost, "/loans", anaToken, map[string]any{
		"owner":       map[string]string{"name": "Ana", "phone": "555-0100"},
		"borrower":    map[string]string{"name": "Bo", "phone": "555-0200"},
		"item":        "X",
		"loan_date":   "31-31-2024",
		"period_days": 7,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_DATE", env.Error.Code)

	status, env = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/X/attributes/status", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Available")
}

func Test_Listing_ByPrice(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "Ana", "555-0100")

	status, env := call(t, app, http.MethodGet, "/items", "", nil)
	require.Equal(t, http.StatusOK, status)
	var empty struct {
		Listing string `json:"listing"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &empty))
	assert.Equal(t, "", empty.Listing)

	addBoardGame(t, app, token, "C", 30)
	addBoardGame(t, app, token, "A", 10)
	addBoardGame(t, app, token, "B", 20)

	status, env = call(t, app, http.MethodGet, "/items?order=price", "", nil)
	require.Equal(t, http.StatusOK, status)
	var listing struct {
		Listing string `json:"listing"`
		Items   []struct {
			Price float64 `json:"price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing.Items, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{listing.Items[0].Price, listing.Items[1].Price, listing.Items[2].Price})
	assert.Equal(t,
		"BOARD GAME: A, $10.00, Available, COMPLETE|BOARD GAME: B, $20.00, Available, COMPLETE|BOARD GAME: C, $30.00, Available, COMPLETE",
		listing.Listing)

	status, env = call(t, app, http.MethodGet, "/items?order=weight", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_DATA", env.Error.Code)
}

func Test_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.Error.Code)
}

func Test_Items_RenameWithPaddedAttribute(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "Ana", "555-0100")
	addBoardGame(t, app, token, "Catan", 50)

	status, env := call(t, app, http.MethodPut, "/users/Ana/555-0100/items/Catan/attributes/%20name", token, map[string]string{"value": "Risk"})
	require.Equal(t, http.StatusOK, status, "%+v", env.Error)
	var item struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.Equal(t, "Risk", item.Name)

	status, _ = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/Risk", "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodGet, "/users/Ana/555-0100/items/Catan", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
