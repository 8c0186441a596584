package cli

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutResponse struct {
	Status string         `json:"status"`
	Data   CheckoutResult `json:"data"`
	Error  *CLIError      `json:"error"`
}

type ordersResponse struct {
	Status string         `json:"status"`
	Data   []OrderSummary `json:"data"`
}

func (e *cliEnv) checkout(args ...string) (checkoutResponse, error) {
	e.t.Helper()
	out, err := e.run(append([]string{"--format", "json", "checkout"}, args...)...)
	var resp checkoutResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), out)
	return resp, err
}

func (e *cliEnv) orders() []OrderSummary {
	e.t.Helper()
	out, err := e.run("--format", "json", "orders")
	require.NoError(e.t, err, out)
	var resp ordersResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), out)
	return resp.Data
}

var customerArgs = []string{
	"--name", "Siti Rahma",
	"--whatsapp", "081234567890",
	"--address", "Jl. Malioboro 12, Yogyakarta",
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("add", "batik-cotton", "--variant", "indigo", "--qty", "2")
	require.NoError(t, err)

	resp, err := env.checkout(append(customerArgs, "--notes", "Wrap nicely")...)
	require.NoError(t, err)

	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.OrderID)
	assert.Equal(t, int64(1), resp.Data.Seq)
	assert.Equal(t, 170000.0, resp.Data.Total)
	assert.Contains(t, resp.Data.Message, "Name: Siti Rahma")
	assert.Contains(t, resp.Data.Message, "Notes: Wrap nicely")
	assert.Contains(t, resp.Data.Message, "- Batik Cotton (2m) - IDR\u00a0170,000.00")

	link, err := url.Parse(resp.Data.Link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", link.Host)
	assert.Equal(t, "/6281122334455", link.Path)
	assert.Equal(t, resp.Data.Message, link.Query().Get("text"))

	show, err := env.runJSON("show")
	require.NoError(t, err)
	assert.Empty(t, show.Data.Items)

	orders := env.orders()
	require.Len(t, orders, 1)
	assert.Equal(t, resp.Data.OrderID, orders[0].ID)
	assert.Equal(t, "Siti Rahma", orders[0].Customer)
	assert.Equal(t, 1, orders[0].Items)
}

func TestCheckout_TextOutput(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("add", "silk-red")
	require.NoError(t, err)

	out, err := env.run(append([]string{"--locale", "id", "checkout"}, customerArgs...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "placed")
	assert.Contains(t, out, "*New Order from Website*")
	assert.Contains(t, out, "Send it: https://wa.me/6281122334455?text=")
}

func TestCheckout_InvalidCustomerKeepsCart(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("add", "silk-red")
	require.NoError(t, err)

	resp, err := env.checkout("--whatsapp", "081234567890", "--address", "Jl. Malioboro 12")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "name")

	show, err := env.runJSON("show")
	require.NoError(t, err)
	assert.Len(t, show.Data.Items, 1)
	assert.Empty(t, env.orders())
}

func TestCheckout_UnknownDelivery(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("add", "silk-red")
	require.NoError(t, err)

	resp, err := env.checkout(append(customerArgs, "--delivery", "drone")...)
	require.Error(t, err)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newCLIEnv(t)

	resp, err := env.checkout(customerArgs...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeEmptyCart, resp.Error.Code)

	resp, err = env.checkout(append(customerArgs, "--dry-run")...)
	require.Error(t, err)
	assert.Equal(t, ErrCodeEmptyCart, resp.Error.Code)
}

func TestCheckout_DryRunKeepsCart(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("add", "linen-natural", "--qty", "2.25")
	require.NoError(t, err)

	resp, err := env.checkout(append(customerArgs, "--dry-run", "--delivery", "pickup", "--payment", "cash_on_delivery")...)
	require.NoError(t, err)

	assert.True(t, resp.Data.DryRun)
	assert.Empty(t, resp.Data.OrderID)
	assert.Contains(t, resp.Data.Message, "Payment: CASH ON DELIVERY")
	assert.Contains(t, resp.Data.Message, "Delivery: PICKUP")
	assert.True(t, strings.HasPrefix(resp.Data.Link, "https://wa.me/"))

	show, err := env.runJSON("show")
	require.NoError(t, err)
	assert.Len(t, show.Data.Items, 1)
	assert.Empty(t, env.orders())
}

func TestOrders_TextListing(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("orders")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders yet.")

	for i := 0; i < 2; i++ {
		_, err := env.run("add", "silk-red")
		require.NoError(t, err)
		_, err = env.checkout(customerArgs...)
		require.NoError(t, err)
	}

	out, err = env.run("orders")
	require.NoError(t, err)
	assert.Contains(t, out, "#1  ")
	assert.Contains(t, out, "#2  ")
	assert.Contains(t, out, "Siti Rahma")

	orders := env.orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].Seq)
	assert.Equal(t, int64(2), orders[1].Seq)
}

func TestOrders_FilterByProduct(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("add", "silk-red")
	require.NoError(t, err)
	_, err = env.checkout(customerArgs...)
	require.NoError(t, err)

	_, err = env.run("add", "batik-cotton", "--variant", "indigo")
	require.NoError(t, err)
	_, err = env.run("add", "silk-red")
	require.NoError(t, err)
	second, err := env.checkout(customerArgs...)
	require.NoError(t, err)

	out, err := env.run("--format", "json", "orders", "--product", "batik-cotton")
	require.NoError(t, err, out)
	var resp struct {
		Status string        `json:"status"`
		Data   ProductOrders `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "batik-cotton", resp.Data.Product)
	assert.Equal(t, 1, resp.Data.Count)
	require.Len(t, resp.Data.Orders, 1)
	assert.Equal(t, second.Data.OrderID, resp.Data.Orders[0].ID)

	out, err = env.run("orders", "--product", "silk-red")
	require.NoError(t, err)
	assert.Contains(t, out, "2 order(s) include silk-red")

	out, err = env.run("orders", "--product", "linen-natural")
	require.NoError(t, err)
	assert.Contains(t, out, "0 order(s) include linen-natural")
}
