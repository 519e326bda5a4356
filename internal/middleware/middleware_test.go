package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/config"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

const testSecret = "testing-secret"

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_SetsIdentity(t *testing.T) {
	e := echo.New()
	var gotID uint64
	var gotActor string
	e.GET("/protected", func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(uint64)
		gotActor, _ = c.Get("actor").(string)
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret))

	access, err := utils.NewAccessToken(testSecret, 42, utils.ActorStaff, 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := doRequest(e, access.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 42 || gotActor != utils.ActorStaff {
		t.Fatalf("identity = (%d, %q), want (42, staff)", gotID, gotActor)
	}
}

func TestJWTAuth_RejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret))

	if rec := doRequest(e, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := doRequest(e, "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}

	wrong, _ := utils.NewAccessToken("other-secret", 42, utils.ActorStaff, 5)
	if rec := doRequest(e, wrong.Token); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want 401", rec.Code)
	}
}

func TestRequireActor(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret), RequireActor(utils.ActorStaff))

	staff, _ := utils.NewAccessToken(testSecret, 1, utils.ActorStaff, 5)
	if rec := doRequest(e, staff.Token); rec.Code != http.StatusOK {
		t.Errorf("staff: status = %d, want 200", rec.Code)
	}
	company, _ := utils.NewAccessToken(testSecret, 2, utils.ActorCompany, 5)
	if rec := doRequest(e, company.Token); rec.Code != http.StatusForbidden {
		t.Errorf("company: status = %d, want 403", rec.Code)
	}
}

type fakePerms map[string]bool

func (f fakePerms) PermissionsForUser(ctx context.Context, userID uint64) (map[string]bool, error) {
	return f, nil
}

func TestRequirePermission_MatchesMethodAndRoute(t *testing.T) {
	perms := fakePerms{"GET /protected": true}

	e := echo.New()
	mw := []echo.MiddlewareFunc{JWTAuth(testSecret), RequirePermission(perms)}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/protected", ok, mw...)
	e.DELETE("/protected", ok, mw...)

	staff, _ := utils.NewAccessToken(testSecret, 7, utils.ActorStaff, 5)
	if rec := doRequest(e, staff.Token); rec.Code != http.StatusOK {
		t.Errorf("allowed route: status = %d, want 200", rec.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+staff.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("denied route: status = %d, want 403", rec.Code)
	}
}

func TestRequirePermission_CompanyActorBypasses(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret), RequirePermission(fakePerms{}))

	company, _ := utils.NewAccessToken(testSecret, 9, utils.ActorCompany, 5)
	if rec := doRequest(e, company.Token); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"ok":true}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload returned !ok")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header = %q", gotHdr.Get("Content-Type"))
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayload_RejectsShortInput(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte{1, 2, 3}); ok {
		t.Fatal("short payload decoded as ok")
	}
}

func cacheKeyForTest(t *testing.T, url string, userID uint64) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/bookings/:id") // shared route pattern must not collapse keys
	if userID != 0 {
		c.Set("user_id", userID)
		c.Set("actor", utils.ActorCompany)
	}
	return cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, c)
}

func TestCacheKey_SeparatesURLsAndCallers(t *testing.T) {
	a := cacheKeyForTest(t, "/v1/bookings/42", 1)
	b := cacheKeyForTest(t, "/v1/bookings/99", 2)
	if a == b {
		t.Fatalf("distinct bookings and callers share cache key %s", a)
	}

	// Same concrete URL, different accounts: still separate entries.
	if x, y := cacheKeyForTest(t, "/v1/bookings/42", 1), cacheKeyForTest(t, "/v1/bookings/42", 2); x == y {
		t.Fatalf("two accounts share cache key %s", x)
	}

	// Same route pattern, different path params, same account.
	if x, y := cacheKeyForTest(t, "/v1/bookings/42", 1), cacheKeyForTest(t, "/v1/bookings/99", 1); x == y {
		t.Fatalf("two bookings share cache key %s", x)
	}

	// Authenticated and anonymous callers never share an entry.
	if x, y := cacheKeyForTest(t, "/v1/bookings/42", 1), cacheKeyForTest(t, "/v1/bookings/42", 0); x == y {
		t.Fatalf("authenticated and anonymous share cache key %s", x)
	}

	// Stable for the same caller and URL.
	if x, y := cacheKeyForTest(t, "/v1/bookings/42", 1), cacheKeyForTest(t, "/v1/bookings/42", 1); x != y {
		t.Fatalf("key not stable: %s vs %s", x, y)
	}
}
