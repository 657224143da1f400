package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"farmstore/internal/domain"
	authsvc "farmstore/internal/service/auth"
	cartsvc "farmstore/internal/service/cart"
	checkoutsvc "farmstore/internal/service/checkout"
	productsvc "farmstore/internal/service/product"
	usersvc "farmstore/internal/service/user"
	"farmstore/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubResolver struct {
	sessions map[string]session.Session
}

func (s stubResolver) Resolve(_ context.Context, token string) session.Session {
	if sess, ok := s.sessions[token]; ok {
		return sess
	}
	return session.Anonymous()
}

type stubAuth struct {
	profile     *domain.Profile
	err         error
	lastSignup  authsvc.SignupInput
	lastLogout  string
	lastAdmin   authsvc.AdminInput
	logoutCalls int
}

func (s *stubAuth) Signup(_ context.Context, in authsvc.SignupInput) (*domain.Profile, string, error) {
	s.lastSignup = in
	return s.profile, "jwt", s.err
}

func (s *stubAuth) Login(_ context.Context, _, _ string) (*domain.Profile, string, error) {
	return s.profile, "jwt", s.err
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.logoutCalls++
	s.lastLogout = token
	return nil
}

func (s *stubAuth) CreateAdmin(_ context.Context, in authsvc.AdminInput) (*domain.Profile, error) {
	s.lastAdmin = in
	return &domain.Profile{ID: "admin-1", Email: in.Email, Role: domain.RoleAdmin}, nil
}

func (s *stubAuth) AccessTTLSeconds() int { return 3600 }

type stubProducts struct {
	products   []domain.Product
	lastSearch string
}

func (s *stubProducts) ListAvailable(_ context.Context, search, _ string) ([]domain.Product, error) {
	s.lastSearch = search
	return s.products, nil
}

func (s *stubProducts) ListAll(_ context.Context, _ string) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProducts) GetAvailable(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProducts) Get(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrNotFound
}

func (s *stubProducts) Create(_ context.Context, in productsvc.Input) (*domain.Product, error) {
	return &domain.Product{ID: "p1", Name: in.Name}, nil
}

func (s *stubProducts) Update(_ context.Context, id string, in productsvc.Input) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubProducts) Delete(_ context.Context, _ string) error { return nil }

type stubCart struct {
	lines    []domain.CartLine
	lastUser string
}

func (s *stubCart) Get(_ context.Context, userID string) (domain.Cart, error) {
	s.lastUser = userID
	return domain.NewCart(userID, s.lines), nil
}

func (s *stubCart) Lines(_ context.Context, userID string) ([]domain.CartLine, error) {
	s.lastUser = userID
	return s.lines, nil
}

func (s *stubCart) Add(_ context.Context, userID string, _ cartsvc.AddInput) (domain.Cart, error) {
	return domain.NewCart(userID, s.lines), nil
}

func (s *stubCart) ChangeQuantity(_ context.Context, userID, _ string, _ int) (domain.Cart, error) {
	return domain.NewCart(userID, s.lines), nil
}

func (s *stubCart) Remove(_ context.Context, userID, _ string) (domain.Cart, error) {
	return domain.NewCart(userID, nil), nil
}

type stubCheckout struct {
	res       *checkoutsvc.Result
	err       error
	lastInput checkoutsvc.Input
	lastLines []domain.CartLine
	lastSess  session.Session
}

func (s *stubCheckout) Checkout(_ context.Context, sess session.Session, lines []domain.CartLine, in checkoutsvc.Input) (*checkoutsvc.Result, error) {
	s.lastSess = sess
	s.lastLines = lines
	s.lastInput = in
	return s.res, s.err
}

type stubOrders struct {
	orders        []domain.Order
	err           error
	lastStatus    string
	lastSignature string
	lastBody      string
}

func (s *stubOrders) History(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrders) Count(_ context.Context, _ string) (int, error) {
	return len(s.orders), s.err
}

func (s *stubOrders) Get(_ context.Context, _ session.Session, _ string) (*domain.Order, error) {
	if len(s.orders) == 0 {
		return nil, domain.ErrNotFound
	}
	return &s.orders[0], nil
}

func (s *stubOrders) List(_ context.Context, status, _ string) ([]domain.Order, error) {
	s.lastStatus = status
	return s.orders, s.err
}

func (s *stubOrders) UpdateStatus(_ context.Context, id, status string) (*domain.Order, error) {
	s.lastStatus = status
	if _, err := domain.ParseOrderStatus(status); err != nil {
		return nil, err
	}
	return &domain.Order{ID: id, Status: domain.OrderStatus(status)}, nil
}

func (s *stubOrders) Verify(_ context.Context, _ session.Session, _ string) (*domain.Order, error) {
	return nil, s.err
}

func (s *stubOrders) HandleWebhook(_ context.Context, body []byte, signature string) error {
	s.lastBody = string(body)
	s.lastSignature = signature
	return s.err
}

type stubUsers struct {
	lastActor  string
	lastReason string
	err        error
}

func (s *stubUsers) Get(_ context.Context, id string) (*domain.Profile, error) {
	return &domain.Profile{ID: id}, nil
}

func (s *stubUsers) UpdateOwn(_ context.Context, id string, _ usersvc.ProfileInput) (*domain.Profile, error) {
	return &domain.Profile{ID: id}, nil
}

func (s *stubUsers) List(_ context.Context, _, _ string) ([]domain.Profile, error) {
	return []domain.Profile{}, nil
}

func (s *stubUsers) Edit(_ context.Context, id string, _ usersvc.EditInput) (*domain.Profile, error) {
	return &domain.Profile{ID: id}, nil
}

func (s *stubUsers) Suspend(_ context.Context, actorID, id, reason string) (*domain.Profile, error) {
	s.lastActor = actorID
	s.lastReason = reason
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Profile{ID: id, IsSuspended: true, SuspendedReason: &reason}, nil
}

func (s *stubUsers) Unsuspend(_ context.Context, id string) (*domain.Profile, error) {
	return &domain.Profile{ID: id}, nil
}

func (s *stubUsers) Delete(_ context.Context, _, _ string) error { return s.err }

type stubCategories struct {
	lastAll bool
}

func (s *stubCategories) List(context.Context) ([]domain.Category, error) {
	s.lastAll = false
	return []domain.Category{{Name: "eggs", Products: 2}}, nil
}

func (s *stubCategories) ListAll(context.Context) ([]domain.Category, error) {
	s.lastAll = true
	return []domain.Category{{Name: "dairy", Products: 1}, {Name: "eggs", Products: 2}}, nil
}

type stubStats struct{}

func (stubStats) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{Orders: 2, RevenueNGN: 700000, Products: 4, ActiveUsers: 3}, nil
}

type testDeps struct {
	auth     *stubAuth
	products *stubProducts
	category *stubCategories
	cart     *stubCart
	checkout *stubCheckout
	orders   *stubOrders
	users    *stubUsers
}

const (
	buyerToken     = "buyer-token"
	adminToken     = "admin-token"
	suspendedToken = "suspended-token"
	resolvingToken = "resolving-token"
)

func newTestRouter(t *testing.T) (*gin.Engine, *testDeps) {
	t.Helper()
	return newTestRouterWithLogger(t, logDiscard())
}

func newTestRouterWithLogger(t *testing.T, logger *log.Logger) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	td := &testDeps{
		auth:     &stubAuth{profile: &domain.Profile{ID: "u1", Email: "ada@example.com", Role: domain.RoleCustomer}},
		products: &stubProducts{},
		category: &stubCategories{},
		cart:     &stubCart{},
		checkout: &stubCheckout{},
		orders:   &stubOrders{},
		users:    &stubUsers{},
	}
	resolver := stubResolver{sessions: map[string]session.Session{
		buyerToken:     session.Authenticated(session.Identity{UserID: "u1", Email: "ada@example.com"}),
		adminToken:     session.Authenticated(session.Identity{UserID: "a1", Email: "admin@example.com", IsAdmin: true}),
		suspendedToken: session.Authenticated(session.Identity{UserID: "u9", IsSuspended: true}),
		resolvingToken: session.Resolving(),
	}}
	router, err := buildRouter(logger, nil, Deps{
		Sessions:        resolver,
		AuthSvc:         td.auth,
		ProductSvc:      td.products,
		CategorySvc:     td.category,
		CartSvc:         td.cart,
		CheckoutSvc:     td.checkout,
		OrderSvc:        td.orders,
		UserSvc:         td.users,
		StatsSvc:        stubStats{},
		AllowedOrigins:  []string{"*"},
		AdminServiceKey: "service-key",
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, td
}

func do(router http.Handler, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBuildRouterRequiresServices(t *testing.T) {
	if _, err := buildRouter(logDiscard(), nil, Deps{}); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestPageDecisions(t *testing.T) {
	router, _ := newTestRouter(t)
	cases := []struct {
		path    string
		token   string
		code    int
		outcome string
	}{
		{"/pages/home", "", http.StatusOK, "render"},
		{"/pages/cart", "", http.StatusOK, "render"},
		{"/pages/dashboard", "", http.StatusUnauthorized, "login-required"},
		{"/pages/profile", buyerToken, http.StatusOK, "render"},
		{"/pages/admin", buyerToken, http.StatusForbidden, "access-denied"},
		{"/pages/admin", "", http.StatusForbidden, "access-denied"},
		{"/pages/admin", adminToken, http.StatusOK, "render"},
		{"/pages/our-story", "bogus-token", http.StatusOK, "render"},
	}
	for _, tc := range cases {
		rec := do(router, http.MethodGet, tc.path, tc.token, "")
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.path, tc.code, rec.Code, rec.Body.String())
		}
		var d struct {
			Outcome     string `json:"outcome"`
			ResetScroll bool   `json:"resetScroll"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		if d.Outcome != tc.outcome || !d.ResetScroll {
			t.Fatalf("%s: unexpected decision %+v", tc.path, d)
		}
	}

	if rec := do(router, http.MethodGet, "/pages/checkout", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown page, got %d", rec.Code)
	}
}

func TestTierGuards(t *testing.T) {
	router, td := newTestRouter(t)

	if rec := do(router, http.MethodGet, "/me/cart", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous cart, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/me/cart", buyerToken, ""); rec.Code != http.StatusOK || td.cart.lastUser != "u1" {
		t.Fatalf("expected buyer cart, got %d user=%q", rec.Code, td.cart.lastUser)
	}
	if rec := do(router, http.MethodGet, "/admin/stats", buyerToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on admin route, got %d", rec.Code)
	}
	rec := do(router, http.MethodGet, "/admin/stats", adminToken, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"revenueNgn":700000`) {
		t.Fatalf("unexpected admin stats %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCheckoutHandler(t *testing.T) {
	router, td := newTestRouter(t)
	td.cart.lines = []domain.CartLine{{ID: "l1", ProductID: "eggs", Quantity: 2, Product: domain.Product{Name: "Tray of 30 Eggs", PriceNGN: 350000}}}
	td.checkout.res = &checkoutsvc.Result{
		Order:       domain.Order{Reference: "ORDER-1-abcdef12", TotalNGN: 700000},
		Channel:     domain.ChannelWhatsApp,
		WhatsAppURL: "https://wa.me/2348000000000?text=hi",
	}

	body := `{"deliveryAddress":"12 Farm Road","deliveryPhone":"0801","paymentMethod":"whatsapp"}`
	rec := do(router, http.MethodPost, "/me/checkout", buyerToken, body, idempotencyHeader, "key-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"whatsappUrl":"https://wa.me/2348000000000?text=hi"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if td.checkout.lastInput.IdempotencyKey != "key-1" || td.checkout.lastInput.DeliveryAddress != "12 Farm Road" {
		t.Fatalf("unexpected input %+v", td.checkout.lastInput)
	}
	if len(td.checkout.lastLines) != 1 || td.checkout.lastSess.UserID() != "u1" {
		t.Fatalf("expected resolved cart lines and session")
	}

	td.checkout.res.Replayed = true
	if rec := do(router, http.MethodPost, "/me/checkout", buyerToken, body); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for replay, got %d", rec.Code)
	}
}

func TestCheckoutErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrEmptyCart, http.StatusBadRequest},
		{domain.Invalid("delivery address required"), http.StatusBadRequest},
		{domain.ErrSuspended, http.StatusForbidden},
		{domain.ErrInsufficientStock, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		router, td := newTestRouter(t)
		td.checkout.err = tc.err
		rec := do(router, http.MethodPost, "/me/checkout", buyerToken, `{}`)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}

	router, td := newTestRouter(t)
	td.checkout.err = &checkoutsvc.HandoffError{Order: domain.Order{Reference: "ORDER-5-55555555"}, Err: errors.New("timeout")}
	rec := do(router, http.MethodPost, "/me/checkout", buyerToken, `{}`)
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), "ORDER-5-55555555") {
		t.Fatalf("expected 502 with reference, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestSignupAndLogout(t *testing.T) {
	router, td := newTestRouter(t)

	rec := do(router, http.MethodPost, "/auth/signup", "", `{"email":"ada@example.com","password":"secret1","fullName":"Ada","country":"NG"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"accessToken":"jwt"`) || td.auth.lastSignup.FullName != "Ada" {
		t.Fatalf("unexpected signup %s", rec.Body.String())
	}

	rec = do(router, http.MethodPost, "/auth/logout", buyerToken, "")
	if rec.Code != http.StatusOK || td.auth.lastLogout != buyerToken {
		t.Fatalf("unexpected logout %d token=%q", rec.Code, td.auth.lastLogout)
	}
	if rec := do(router, http.MethodPost, "/auth/logout", "", ""); rec.Code != http.StatusOK || td.auth.logoutCalls != 1 {
		t.Fatalf("anonymous logout must succeed without revoking, got %d", rec.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, td := newTestRouter(t)
	td.auth.err = authsvc.ErrInvalidCredentials

	rec := do(router, http.MethodPost, "/auth/login", "", `{"email":"ada@example.com","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateAdminRequiresServiceKey(t *testing.T) {
	router, td := newTestRouter(t)
	body := `{"email":"boss@example.com","password":"long-enough-password"}`

	if rec := do(router, http.MethodPost, "/internal/admins", "wrong", body); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec := do(router, http.MethodPost, "/internal/admins", "service-key", body)
	if rec.Code != http.StatusCreated || td.auth.lastAdmin.Email != "boss@example.com" {
		t.Fatalf("expected admin created, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminSuspendUser(t *testing.T) {
	router, td := newTestRouter(t)

	rec := do(router, http.MethodPost, "/admin/users/u1/suspend", adminToken, `{"reason":"fraud"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "User suspended") {
		t.Fatalf("unexpected suspend %d body=%s", rec.Code, rec.Body.String())
	}
	if td.users.lastActor != "a1" || td.users.lastReason != "fraud" {
		t.Fatalf("unexpected call actor=%q reason=%q", td.users.lastActor, td.users.lastReason)
	}

	td.users.err = domain.ErrInUse
	if rec := do(router, http.MethodDelete, "/admin/users/u1", adminToken, ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	router, td := newTestRouter(t)

	rec := do(router, http.MethodPatch, "/admin/orders/o1/status", adminToken, `{"status":"confirmed"}`)
	if rec.Code != http.StatusOK || td.orders.lastStatus != "confirmed" {
		t.Fatalf("unexpected update %d body=%s", rec.Code, rec.Body.String())
	}
	if rec := do(router, http.MethodPatch, "/admin/orders/o1/status", adminToken, `{"status":"lost"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminExportOrders(t *testing.T) {
	router, td := newTestRouter(t)
	td.orders.orders = []domain.Order{{
		Reference:     "ORDER-1-abcdef12",
		CustomerName:  "Ada",
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentWhatsAppPending,
		TotalNGN:      700000,
		Lines:         []domain.OrderLine{{ProductName: "Tray of 30 Eggs", Quantity: 2}},
	}}

	rec := do(router, http.MethodGet, "/admin/orders/export.xlsx", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	file, err := xlsx.OpenBinary(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	sheet := file.Sheets[0]
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected header and one row, got %d", len(sheet.Rows))
	}
	if got := sheet.Rows[1].Cells[0].String(); got != "ORDER-1-abcdef12" {
		t.Fatalf("unexpected reference cell %q", got)
	}
	if got := sheet.Rows[1].Cells[9].String(); got != "Tray of 30 Eggs x2" {
		t.Fatalf("unexpected items cell %q", got)
	}
}

func TestPaystackWebhookForwardsSignature(t *testing.T) {
	router, td := newTestRouter(t)

	rec := do(router, http.MethodPost, "/payments/paystack/webhook", "", `{"event":"charge.success"}`, "X-Paystack-Signature", "abc")
	if rec.Code != http.StatusOK || td.orders.lastSignature != "abc" || td.orders.lastBody != `{"event":"charge.success"}` {
		t.Fatalf("unexpected webhook handling %d sig=%q", rec.Code, td.orders.lastSignature)
	}
}

func TestProductNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	if rec := do(router, http.MethodGet, "/products/missing", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSuspendedSessionStillReadsOwnData(t *testing.T) {
	router, _ := newTestRouter(t)
	if rec := do(router, http.MethodGet, "/me/orders", suspendedToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCategoriesStorefrontAndAdmin(t *testing.T) {
	router, td := newTestRouter(t)

	rec := do(router, http.MethodGet, "/categories", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"eggs"`) {
		t.Fatalf("expected public categories, got %d %s", rec.Code, rec.Body.String())
	}
	if td.category.lastAll {
		t.Fatalf("storefront should list available categories only")
	}

	if rec := do(router, http.MethodGet, "/admin/categories", buyerToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer, got %d", rec.Code)
	}
	rec = do(router, http.MethodGet, "/admin/categories", adminToken, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"dairy"`) {
		t.Fatalf("expected admin categories, got %d %s", rec.Code, rec.Body.String())
	}
	if !td.category.lastAll {
		t.Fatalf("admin should list every category")
	}
}

func TestAccessLogRedactsQueryToken(t *testing.T) {
	var buf bytes.Buffer
	router, _ := newTestRouterWithLogger(t, log.New(&buf, "", 0))

	do(router, http.MethodGet, "/admin/orders/feed?access_token="+adminToken+"&since=1", "", "")
	do(router, http.MethodGet, "/products?search=eggs", "", "")

	out := buf.String()
	if strings.Contains(out, adminToken) {
		t.Fatalf("access log leaked token: %s", out)
	}
	if !strings.Contains(out, "/admin/orders/feed?access_token=REDACTED&since=1") {
		t.Fatalf("expected redacted feed path in log, got %s", out)
	}
	if !strings.Contains(out, "/products?search=eggs") {
		t.Fatalf("expected plain query kept, got %s", out)
	}
}

func TestRedactQuery(t *testing.T) {
	cases := map[string]string{
		"/healthz":                          "/healthz",
		"/products?search=eggs":             "/products?search=eggs",
		"/admin/orders/feed?access_token=x": "/admin/orders/feed?access_token=REDACTED",
	}
	for in, want := range cases {
		if got := redactQuery(in); got != want {
			t.Fatalf("redactQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPendingSessionIsNotServed(t *testing.T) {
	router, _ := newTestRouter(t)

	if rec := do(router, http.MethodGet, "/me/profile", resolvingToken, ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on gated route, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/admin/stats", resolvingToken, ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on admin route, got %d", rec.Code)
	}
	if rec := do(router, http.MethodGet, "/pages/dashboard", resolvingToken, ""); rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 while resolving, got %d", rec.Code)
	}
}
