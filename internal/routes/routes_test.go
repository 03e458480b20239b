package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/athirchat/athirchat/internal/config"
	"github.com/athirchat/athirchat/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	err := Setup(app, Deps{
		Cfg:    config.Config{AppEnv: "development"},
		Logger: logging.Discard(),
	})
	if err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, app *fiber.App, username string) map[string]any {
	t.Helper()
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/register", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register %s: status %d body %v", username, status, body)
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("register %s: missing user in %v", username, body)
	}
	return user
}

func TestRegisterLoginAndFetchWallet(t *testing.T) {
	app := setupApp(t)

	user := registerUser(t, app, "alice")
	if user["usdBalance"] != "1000.00" || user["sypBalance"] != "5500000.00" || user["athrBalance"] != "15250.00" {
		t.Fatalf("opening balances wrong: %v", user)
	}
	if len(user["walletAddress"].(string)) != 25 {
		t.Fatalf("wallet address = %v", user["walletAddress"])
	}
	if _, present := user["passwordHash"]; present {
		t.Fatal("response leaked credential hash")
	}

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", fiber.Map{
		"identifier": "alice@example.com",
		"password":   "hunter22",
	})
	if status != fiber.StatusOK {
		t.Fatalf("login: status %d body %v", status, body)
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/login", fiber.Map{
		"identifier": "alice",
		"password":   "wrong-password",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("bad login: status %d", status)
	}

	status, balances := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/wallet/%s", user["id"]), nil)
	if status != fiber.StatusOK || balances["usdBalance"] != "1000.00" {
		t.Fatalf("wallet fetch: status %d body %v", status, balances)
	}
}

func TestTransferEndpoint(t *testing.T) {
	app := setupApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/transfer", fiber.Map{
		"userId":           alice["id"],
		"recipientAddress": bob["walletAddress"],
		"amount":           "100",
		"currency":         "USD",
	})
	if status != fiber.StatusOK {
		t.Fatalf("transfer: status %d body %v", status, body)
	}
	if body["senderBalance"] != "899.95" {
		t.Fatalf("senderBalance = %v, want 899.95", body["senderBalance"])
	}

	// A transfer the sender cannot cover must change nothing.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/transfer", fiber.Map{
		"userId":           alice["id"],
		"recipientAddress": bob["walletAddress"],
		"amount":           "5000",
		"currency":         "USD",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("overdraft transfer: status %d", status)
	}
	_, balances := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/wallet/%s", alice["id"]), nil)
	if balances["usdBalance"] != "899.95" {
		t.Fatalf("balance after rejected transfer = %v", balances["usdBalance"])
	}

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/transfer", fiber.Map{
		"userId":           alice["id"],
		"recipientAddress": "UNKNOWNADDRESS00000000000",
		"amount":           "10",
		"currency":         "USD",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("unknown recipient: status %d", status)
	}
}

func TestTradeEndpointReturnsOnlyChangedBalances(t *testing.T) {
	app := setupApp(t)
	alice := registerUser(t, app, "alice")

	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/trade", fiber.Map{
		"userId":   alice["id"],
		"action":   "buy",
		"amount":   "1000",
		"currency": "SYP",
	})
	if status != fiber.StatusOK {
		t.Fatalf("buy: status %d body %v", status, body)
	}
	balances, ok := body["balances"].(map[string]any)
	if !ok {
		t.Fatalf("buy response missing balances: %v", body)
	}
	if balances["sypBalance"] != "5489000.00" || balances["athrBalance"] != "16250.00" {
		t.Fatalf("buy balances = %v", balances)
	}
	if _, present := balances["usdBalance"]; present {
		t.Fatalf("unchanged USD balance included: %v", balances)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	app := setupApp(t)
	alice := registerUser(t, app, "alice")
	bob := registerUser(t, app, "bob")

	doJSON(t, app, fiber.MethodPost, "/api/v1/wallet/transfer", fiber.Map{
		"userId":           alice["id"],
		"recipientAddress": bob["walletAddress"],
		"amount":           "25",
		"currency":         "SYP",
	})

	status, _ := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/v1/notifications/%s", bob["id"]), nil)
	if status != fiber.StatusOK {
		t.Fatalf("list notifications: status %d", status)
	}

	req := httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/v1/notifications/%s", bob["id"]), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	var notes []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	resp.Body.Close()
	if len(notes) != 1 || notes[0]["title"] != "Transaction Successful" {
		t.Fatalf("notifications = %v", notes)
	}

	status, _ = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read", notes[0]["id"]), nil)
	if status != fiber.StatusOK {
		t.Fatalf("mark read: status %d", status)
	}
	status, _ = doJSON(t, app, fiber.MethodPost, fmt.Sprintf("/api/v1/notifications/%s/read-all", bob["id"]), nil)
	if status != fiber.StatusOK {
		t.Fatalf("mark all read: status %d", status)
	}
}

func TestHealthzWithoutBackends(t *testing.T) {
	app := setupApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/healthz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
}
