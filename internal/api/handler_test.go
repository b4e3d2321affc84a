package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booths/internal/auth"
	"ms-booths/internal/kafka"
	"ms-booths/internal/logger"
	"ms-booths/internal/models"
	"ms-booths/internal/order"
	"ms-booths/internal/pickup"
	"ms-booths/internal/store"
)

const masterKey = "master-key"

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *store.Store
	qr     *pickup.QRGenerator
	upDir  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()
	st := store.New()
	qr := pickup.NewQRGenerator("pickup-secret")
	upDir := t.TempDir()
	uploads, err := NewUploader(upDir, 1<<20)
	require.NoError(t, err)

	h := &Handler{
		Store:   st,
		Orders:  order.NewOrderService(st, nil, kafka.NoopProducer{}, qr, log),
		Uploads: uploads,
		Logger:  log,
	}
	router := NewRouter(RouterConfig{
		Handler:        h,
		Gate:           auth.NewGate(masterKey, st),
		Logger:         log,
		AllowedOrigins: []string{"*"},
		StaticDir:      t.TempDir(),
		UploadDir:      upDir,
	})
	return &testServer{t: t, router: router, store: st, qr: qr, upDir: upDir}
}

func (s *testServer) do(method, path, key string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(auth.AdminKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seed creates booth B1 (key k1) with menu M1 price 3000 maxQty 2, and booth B2
// (key k2) with menu W1.
func (s *testServer) seed() {
	s.t.Helper()
	for _, b := range []map[string]any{
		{"id": "B1", "name": "Tteokbokki", "adminKey": "k1", "capacity": 20},
		{"id": "B2", "name": "Waffles", "adminKey": "k2"},
	} {
		rec := s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, b)
		require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := s.do(http.MethodPost, "/api/v1/admin/menus", "k1", map[string]any{
		"id": "M1", "boothId": "B1", "name": "Cup", "price": 3000, "maxQty": 2,
		"options": []map[string]any{{"code": "HOT", "label": "Spicy", "priceDelta": 500}},
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/v1/admin/menus", masterKey, map[string]any{
		"id": "W1", "boothId": "B2", "name": "Waffle", "price": 2500,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func validOrder(items ...map[string]any) map[string]any {
	return map[string]any{
		"boothId": "B1", "studentNo": "1234", "studentName": "Kim", "phone": "010-1234-5678",
		"items": items,
	}
}

func TestPublicBooths_HideAdminKey(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodGet, "/api/v1/booths", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "k1")
	assert.NotContains(t, rec.Body.String(), "adminKey")
	booths := decode[[]models.PublicBooth](t, rec)
	require.Len(t, booths, 2)
	assert.True(t, booths[0].IsOpen)

	rec = s.do(http.MethodGet, "/api/v1/booths/B1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "k1")
	assert.Equal(t, 20, decode[models.PublicBooth](t, rec).Capacity)

	rec = s.do(http.MethodGet, "/api/v1/booths/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicMenus(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodGet, "/api/v1/booths/B1/menus", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.MenuItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].MaxQty)
	assert.Len(t, items[0].Options, 1)

	rec = s.do(http.MethodGet, "/api/v1/booths/B9/menus", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_ExampleScenario(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 2}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[models.OrderResponse](t, rec)
	assert.True(t, resp.OK)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(6000), resp.Total)

	rec = s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 3}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths/status", "k1", map[string]any{"boothId": "B1", "isOpen": false, "reason": "sold out"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 1}))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"sold out","code":"BOOTH_CLOSED"}`, rec.Body.String())
}

func TestCreateOrder_QtyAsStringAndZeroLinesDropped(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/orders", "", validOrder(
		map[string]any{"menuId": "M1", "qty": "1"},
		map[string]any{"menuId": "M1", "qty": 0},
		map[string]any{"menuId": "ghost", "qty": 0},
	))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, int64(3000), decode[models.OrderResponse](t, rec).Total)

	list := s.store.ListReservations("B1")
	require.Len(t, list, 1)
	assert.Equal(t, []models.LineItem{{MenuID: "M1", Qty: 1}}, list[0].Items)
}

func TestCreateOrder_RequestValidation(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	cases := []struct {
		name string
		body any
		code int
	}{
		{"empty body", nil, http.StatusBadRequest},
		{"malformed json", "{", http.StatusBadRequest},
		{"missing phone", map[string]any{"boothId": "B1", "studentNo": "1234", "studentName": "Kim", "items": []any{map[string]any{"menuId": "M1", "qty": 1}}}, http.StatusBadRequest},
		{"student no too short", map[string]any{"boothId": "B1", "studentNo": "123", "studentName": "Kim", "phone": "1", "items": []any{map[string]any{"menuId": "M1", "qty": 1}}}, http.StatusBadRequest},
		{"no items", map[string]any{"boothId": "B1", "studentNo": "1234", "studentName": "Kim", "phone": "1", "items": []any{}}, http.StatusBadRequest},
		{"unknown booth", map[string]any{"boothId": "B9", "studentNo": "1234", "studentName": "Kim", "phone": "1", "items": []any{map[string]any{"menuId": "M1", "qty": 1}}}, http.StatusNotFound},
		{"other booth menu", validOrder(map[string]any{"menuId": "W1", "qty": 1}), http.StatusBadRequest},
		{"only zero quantities", validOrder(map[string]any{"menuId": "M1", "qty": 0}), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/orders", "", tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	assert.Empty(t, s.store.ListReservations("B1"))
}

func TestAdmin_RequiresCredential(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodGet, "/api/v1/admin/whoami", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/whoami", "wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/whoami?key="+masterKey, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"MASTER","allowedBoothId":null}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/admin/whoami", "k2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"BOOTH","allowedBoothId":"B2"}`, rec.Body.String())
}

func TestAdmin_CreateBooth(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/admin/booths", "k1", map[string]any{"id": "B3", "name": "x", "adminKey": "k3"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B3", "name": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B1", "name": "again", "adminKey": "k9"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B3", "name": "dup key", "adminKey": "k1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdmin_CreateBooth_CapacityAsString(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B3", "name": "Corn", "adminKey": "k3", "capacity": "5"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B4", "name": "Tea", "adminKey": "k4", "capacity": nil})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/booths/B3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[models.PublicBooth](t, rec).Capacity)

	rec = s.do(http.MethodGet, "/api/v1/booths/B4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[models.PublicBooth](t, rec).Capacity)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths", masterKey, map[string]any{"id": "B5", "name": "x", "adminKey": "k5", "capacity": "many"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_HugeQuantityRejected(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/admin/menus", masterKey, map[string]any{"id": "M9", "boothId": "B1", "name": "Water", "price": 3000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, qty := range []any{"4611686018427387904", 1e300} {
		rec = s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M9", "qty": qty}))
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	assert.Empty(t, s.store.ListReservations("B1"))
	assert.Equal(t, int64(1), s.store.NextID())
}

func TestAdmin_BoothStatus(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/admin/booths/status", masterKey, map[string]any{"boothId": "B1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "isOpen must be a boolean")

	rec = s.do(http.MethodPost, "/api/v1/admin/booths/status", "k1", map[string]any{"boothId": "B9", "isOpen": false})
	assert.Equal(t, http.StatusNotFound, rec.Code, "existence is checked before scope")

	rec = s.do(http.MethodPost, "/api/v1/admin/booths/status", "k1", map[string]any{"boothId": "B2", "isOpen": false})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths/status", "k2", map[string]any{"boothId": "B2", "isOpen": false})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.BoothStatusResponse](t, rec)
	assert.False(t, resp.IsOpen)
	assert.Equal(t, store.DefaultClosedReason, resp.Reason)

	rec = s.do(http.MethodPost, "/api/v1/admin/booths/status", masterKey, map[string]any{"boothId": "B2", "isOpen": true, "reason": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"boothId":"B2","isOpen":true,"reason":""}`, rec.Body.String())
}

func TestAdmin_MenuScope(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/admin/menus", "k1", map[string]any{"id": "X1", "boothId": "B2", "name": "x", "price": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/menus", "k1", map[string]any{"id": "M1", "boothId": "B1", "name": "x", "price": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/menus", "k1", map[string]any{"id": "M2", "boothId": "B1", "name": "x", "price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/menus", "k1", map[string]any{"id": "M2", "boothId": "B1", "name": "x", "maxQty": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/menus", "k1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/menus?boothId=B2", "k1", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/menus?boothId=B1", "k1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct{ Items []models.MenuItem }](t, rec)
	assert.Len(t, body.Items, 1)
}

func TestAdmin_ReservationsFlow(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 1}))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/v1/admin/reservations?boothId=B1", "k2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/reservations", masterKey, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/reservations?boothId=B1", "k1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct{ Items []models.Reservation }](t, rec)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "1234", list.Items[0].StudentNo)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k2", map[string]any{"id": 1, "status": "DONE"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"id": "1", "status": " done "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true,"id":1,"status":"DONE"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"id": 1, "status": "CONFIRMED"})
	assert.Equal(t, http.StatusOK, rec.Code, "any transition is allowed")

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"id": 1, "status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"status": "DONE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"id": 99, "status": "DONE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/status", "k1", map[string]any{"id": "abc", "status": "DONE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPickupFlow(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 1}))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[models.OrderResponse](t, rec).ID

	rec = s.do(http.MethodGet, "/api/v1/orders/1/qr?studentNo=1234", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)

	rec = s.do(http.MethodGet, "/api/v1/orders/1/qr?studentNo=0000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(http.MethodGet, "/api/v1/orders/1/qr", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	r, err := s.store.GetReservation(id)
	require.NoError(t, err)
	payload, err := s.qr.Seal(pickup.TicketFor(r, time.Now()))
	require.NoError(t, err)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/pickup", "k2", map[string]any{"payload": payload})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/pickup", "k1", map[string]any{"payload": payload})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.StatusDone, decode[models.Reservation](t, rec).Status)

	rec = s.do(http.MethodPost, "/api/v1/admin/reservations/pickup", "k1", map[string]any{"payload": payload})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBoothSummary(t *testing.T) {
	s := newTestServer(t)
	s.seed()

	rec := s.do(http.MethodPost, "/api/v1/orders", "", validOrder(map[string]any{"menuId": "M1", "qty": 2}))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/booths/B1/summary", "k1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[models.BoothSummary](t, rec)
	assert.Equal(t, int64(6000), sum.Revenue)
	assert.Equal(t, 2, sum.QuantityByMenu["M1"])

	rec = s.do(http.MethodGet, "/api/v1/admin/booths/B1/summary", "k2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/booths/B9/summary", masterKey, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	send := func(field, filename string) *httptest.ResponseRecorder {
		body, ctype := multipartUpload(t, field, filename, []byte("fake image bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload", body)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set(auth.AdminKeyHeader, masterKey)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := send("file", "../../menu photo.PNG")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[struct {
		OK  bool   `json:"ok"`
		URL string `json:"url"`
	}](t, rec)
	assert.True(t, resp.OK)
	require.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.URL, "_menu_photo.PNG"), resp.URL)

	stored := strings.TrimPrefix(resp.URL, "/uploads/")
	data, err := os.ReadFile(filepath.Join(s.upDir, stored))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	rec = s.do(http.MethodGet, resp.URL, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusBadRequest, send("file", "script.exe").Code)
	assert.Equal(t, http.StatusBadRequest, send("image", "a.png").Code)
}

func TestWriteUpload_RemovesPartialFileOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20260101000000000000_menu.png")
	src := io.MultiReader(strings.NewReader("partial bytes"), iotest.ErrReader(errors.New("connection reset")))

	err := writeUpload(path, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial upload must be removed")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, writeUpload(path, strings.NewReader("whole")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "whole", string(data))
	assert.Error(t, writeUpload(path, strings.NewReader("again")), "existing names are never overwritten")
}

func TestSecureFilename(t *testing.T) {
	assert.Equal(t, "my_cat.jpg", SecureFilename("my cat.jpg"))
	assert.Equal(t, "passwd", SecureFilename("../../etc/passwd"))
	assert.Equal(t, "evil.png", SecureFilename(`C:\temp\evil.png`))
	assert.Equal(t, "png", SecureFilename("..png"))
	assert.True(t, AllowedFile("a.WebP"))
	assert.False(t, AllowedFile("noext"))
}

func TestStaticAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/index", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/index", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
