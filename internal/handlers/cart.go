package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"menucart/internal/cart"
	applog "menucart/internal/log"
)

const sessionCartKey = "cart:lines"

type addLineRequest struct {
	VariantID  uint            `json:"variantId"`
	Quantity   *int            `json:"quantity"`
	Selections map[uint][]uint `json:"selections"`
	Notes      string          `json:"notes"`
}

type lineKeyRequest struct {
	LineKey string `json:"lineKey"`
}

type addLineResponse struct {
	Status          string `json:"status"`
	LineKey         string `json:"lineKey"`
	TotalItems      int    `json:"totalItems"`
	CartTotal       string `json:"cartTotal"`
	VariantQuantity int    `json:"variantQuantity"`
}

type lineResponse struct {
	Status     string `json:"status"`
	LineKey    string `json:"lineKey"`
	Quantity   int    `json:"quantity"`
	Subtotal   string `json:"subtotal"`
	CartTotal  string `json:"cartTotal"`
	TotalItems int    `json:"totalItems"`
	Removed    bool   `json:"removed"`
	AnyBlocked *bool  `json:"anyBlocked,omitempty"`
}

type cartErrorResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Group      string `json:"group,omitempty"`
	CartTotal  string `json:"cartTotal"`
	TotalItems int    `json:"totalItems"`
	AnyBlocked bool   `json:"anyBlocked,omitempty"`
}

type optionView struct {
	Name       string `json:"name"`
	GroupName  string `json:"groupName"`
	ExtraPrice string `json:"extraPrice"`
}

type cartLineView struct {
	LineKey     string       `json:"lineKey"`
	VariantID   uint         `json:"variantId"`
	VariantName string       `json:"variantName"`
	DishName    string       `json:"dishName"`
	Quantity    int          `json:"quantity"`
	UnitPrice   string       `json:"unitPrice"`
	Subtotal    string       `json:"subtotal"`
	Options     []optionView `json:"options"`
	Notes       string       `json:"notes"`
	Blocked     bool         `json:"blocked"`
}

type cartSummaryResponse struct {
	Status     string         `json:"status"`
	Lines      []cartLineView `json:"lines"`
	CartTotal  string         `json:"cartTotal"`
	TotalItems int            `json:"totalItems"`
	AnyBlocked bool           `json:"anyBlocked"`
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// loadCart rebuilds the session cart. Malformed entries are dropped and logged.
func loadCart(r *http.Request) *cart.Store {
	blob := sessionManager.GetBytes(r.Context(), sessionCartKey)
	store, discarded, err := cart.Decode(blob, cartLimits)
	if err != nil {
		applog.Error(r.Context(), "discarding unreadable cart", "error", err)
	}
	if discarded > 0 {
		applog.Info(r.Context(), "discarded malformed cart lines", "count", discarded)
	}
	return store
}

// saveCart writes the cart back to the session when it changed.
func saveCart(r *http.Request, store *cart.Store) error {
	if !store.Dirty() {
		return nil
	}
	if store.Len() == 0 {
		sessionManager.Remove(r.Context(), sessionCartKey)
		return nil
	}
	blob, err := store.Encode()
	if err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionCartKey, blob)
	return nil
}

func writeCartError(w http.ResponseWriter, r *http.Request, store *cart.Store, err error) {
	status := errorStatus(err)
	resp := cartErrorResponse{
		Status:     "error",
		Message:    err.Error(),
		CartTotal:  formatMoney(store.TotalPrice()),
		TotalItems: store.TotalItems(),
	}
	var validation *cart.ValidationError
	if errors.As(err, &validation) {
		resp.Field = validation.Field
		resp.Group = validation.Group
	}
	if status == http.StatusInternalServerError {
		applog.Error(r.Context(), "cart operation failed", "error", err)
		resp.Message = "unable to update the cart"
	} else {
		applog.Debug(r.Context(), "cart operation rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func persistOrFail(w http.ResponseWriter, r *http.Request, store *cart.Store) bool {
	if err := saveCart(r, store); err != nil {
		applog.Error(r.Context(), "failed to save cart", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to save the cart")
		return false
	}
	return true
}

// AddLine prices a customisation on the server and adds it to the session cart.
func AddLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)

	var req addLineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		applog.Debug(r.Context(), "failed to decode add line payload", "error", err)
		writeCartError(w, r, store, &cart.ValidationError{Field: "body", Message: "invalid request body"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	quote, err := cart.PriceFor(r.Context(), menu, req.VariantID, req.Selections)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	key, err := store.Add(req.VariantID, quantity, &quote.UnitPrice, quote.OptionIDs, req.Notes)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	if !persistOrFail(w, r, store) {
		return
	}

	applog.Debug(r.Context(), "cart line added", "line_key", key, "variant_id", req.VariantID, "quantity", quantity)
	writeJSON(w, http.StatusOK, addLineResponse{
		Status:          "ok",
		LineKey:         key,
		TotalItems:      store.TotalItems(),
		CartTotal:       formatMoney(store.TotalPrice()),
		VariantQuantity: store.QuantityOfVariant(req.VariantID),
	})
}

func readLineKey(w http.ResponseWriter, r *http.Request, store *cart.Store) (string, bool) {
	var req lineKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeCartError(w, r, store, &cart.ValidationError{Field: "body", Message: "invalid request body"})
		return "", false
	}
	key := strings.TrimSpace(req.LineKey)
	if key == "" {
		writeCartError(w, r, store, &cart.ValidationError{Field: "lineKey", Message: "line key is required"})
		return "", false
	}
	return key, true
}

func anyBlocked(r *http.Request, store *cart.Store) (bool, error) {
	return cart.AnyLineBlocked(r.Context(), menu, store)
}

// IncrementLine adds one unit to an existing line once its variant is
// confirmed to be still available.
func IncrementLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)
	key, ok := readLineKey(w, r, store)
	if !ok {
		return
	}
	if err := cart.EnsureLineAvailable(r.Context(), menu, store, key); err != nil {
		writeCartError(w, r, store, err)
		return
	}
	line, err := store.Increment(key)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	if !persistOrFail(w, r, store) {
		return
	}

	writeJSON(w, http.StatusOK, lineResponse{
		Status:     "ok",
		LineKey:    key,
		Quantity:   line.Quantity,
		Subtotal:   formatMoney(line.Subtotal()),
		CartTotal:  formatMoney(store.TotalPrice()),
		TotalItems: store.TotalItems(),
	})
}

// DecrementLine takes one unit off a line. Reaching zero removes it, and an
// unknown key is reported as already removed.
func DecrementLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)
	key, ok := readLineKey(w, r, store)
	if !ok {
		return
	}
	line, removed := store.Decrement(key)
	if !persistOrFail(w, r, store) {
		return
	}

	resp := lineResponse{
		Status:     "ok",
		LineKey:    key,
		Quantity:   line.Quantity,
		Subtotal:   formatMoney(line.Subtotal()),
		CartTotal:  formatMoney(store.TotalPrice()),
		TotalItems: store.TotalItems(),
		Removed:    removed,
	}
	if removed {
		blocked, err := anyBlocked(r, store)
		if err != nil {
			writeCartError(w, r, store, err)
			return
		}
		resp.AnyBlocked = &blocked
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveLine deletes a line whatever its quantity. Removing an absent line succeeds.
func RemoveLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)
	key, ok := readLineKey(w, r, store)
	if !ok {
		return
	}
	store.Remove(key)
	if !persistOrFail(w, r, store) {
		return
	}

	blocked, err := anyBlocked(r, store)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	writeJSON(w, http.StatusOK, lineResponse{
		Status:     "ok",
		LineKey:    key,
		Subtotal:   formatMoney(decimal.Zero),
		CartTotal:  formatMoney(store.TotalPrice()),
		TotalItems: store.TotalItems(),
		Removed:    true,
		AnyBlocked: &blocked,
	})
}

// ClearCart empties the session cart.
func ClearCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	sessionManager.Remove(r.Context(), sessionCartKey)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CartSummary lists the cart lines resolved against the current catalog.
func CartSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)
	summary, err := summarize(r, store)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	if !persistOrFail(w, r, store) {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// summarize totals only the lines it lists, so stale lines are never billed.
func summarize(r *http.Request, store *cart.Store) (cartSummaryResponse, error) {
	summary := cartSummaryResponse{
		Status: "ok",
		Lines:  []cartLineView{},
	}
	total := decimal.Zero
	for line, err := range store.Lines(r.Context(), menu) {
		if err != nil {
			return cartSummaryResponse{}, err
		}
		summary.Lines = append(summary.Lines, projectLine(line))
		total = total.Add(line.Subtotal)
		summary.TotalItems += line.Quantity
	}
	summary.CartTotal = formatMoney(total)
	blocked, err := anyBlocked(r, store)
	if err != nil {
		return cartSummaryResponse{}, err
	}
	summary.AnyBlocked = blocked
	return summary, nil
}

func projectLine(line cart.DetailedLine) cartLineView {
	view := cartLineView{
		LineKey:     line.Key,
		VariantID:   line.Variant.ID,
		VariantName: line.Variant.Name,
		Quantity:    line.Quantity,
		UnitPrice:   formatMoney(line.UnitPrice),
		Subtotal:    formatMoney(line.Subtotal),
		Options:     make([]optionView, 0, len(line.Options)),
		Notes:       line.Notes,
		Blocked:     line.Blocked,
	}
	if line.Variant.Dish != nil {
		view.DishName = line.Variant.Dish.Name
	}
	for _, option := range line.Options {
		view.Options = append(view.Options, optionView{
			Name:       option.Name,
			GroupName:  option.GroupName,
			ExtraPrice: formatMoney(option.ExtraPrice),
		})
	}
	return view
}

// Checkout starts payment for the cart. Empty carts and carts holding an
// unavailable item are refused; otherwise the priced summary is returned and
// the cart is cleared.
func Checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ready(w, r) {
		return
	}

	store := loadCart(r)
	summary, err := summarize(r, store)
	if err != nil {
		writeCartError(w, r, store, err)
		return
	}
	if len(summary.Lines) == 0 {
		writeCartError(w, r, store, &cart.ValidationError{Field: "cart", Message: "your cart is empty"})
		return
	}
	if summary.AnyBlocked {
		applog.Debug(r.Context(), "checkout refused, cart holds unavailable items")
		writeJSON(w, http.StatusConflict, cartErrorResponse{
			Status:     "error",
			Message:    "some items in your cart are no longer available",
			CartTotal:  summary.CartTotal,
			TotalItems: summary.TotalItems,
			AnyBlocked: true,
		})
		return
	}

	store.Clear()
	if !persistOrFail(w, r, store) {
		return
	}
	applog.Info(r.Context(), "checkout started", "items", summary.TotalItems, "total", summary.CartTotal)
	writeJSON(w, http.StatusOK, summary)
}
