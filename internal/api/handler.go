package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-booths/internal/apperr"
	"ms-booths/internal/logger"
	"ms-booths/internal/models"
	"ms-booths/internal/order"
	"ms-booths/internal/store"
	"ms-booths/internal/utils"
)

type Handler struct {
	Store   *store.Store
	Orders  *order.OrderService
	Uploads *Uploader
	Logger  *logger.Logger
}

// ---------------- PUBLIC ----------------

func (h *Handler) ListBooths(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, h.Store.ListBooths())
}

func (h *Handler) GetBooth(w http.ResponseWriter, r *http.Request) {
	booth, err := h.Store.PublicBooth(chi.URLParam(r, "boothId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, booth)
}

func (h *Handler) ListBoothMenus(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListMenuItems(chi.URLParam(r, "boothId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	resv, err := h.Orders.PlaceOrder(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusCreated, models.OrderResponse{OK: true, ID: resv.ID, Total: resv.Total})
}

// PickupQR serves the PNG pickup code for a reservation. The caller proves
// ownership with the studentNo query parameter.
func (h *Handler) PickupQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.fail(w, r, apperr.NotFoundf("reservation not found"))
		return
	}
	studentNo := strings.TrimSpace(r.URL.Query().Get("studentNo"))
	if studentNo == "" {
		h.fail(w, r, apperr.Invalidf("studentNo is required"))
		return
	}

	png, err := h.Orders.PickupQR(id, studentNo)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "nextReservationId": h.Store.NextID()})
}

// ---------------- helpers ----------------

// decodeBody reads a JSON body. An empty body decodes to the zero value so the
// required-field checks downstream produce the error message.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Invalidf("invalid request body: %v", err)
	}
	return nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.Unknown {
		h.Logger.Error("API", fmt.Sprintf("%s %s failed: %v", r.Method, r.URL.Path, err))
	}
	_ = utils.WriteError(w, err)
}
