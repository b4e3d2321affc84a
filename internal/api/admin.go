package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-booths/internal/apperr"
	"ms-booths/internal/auth"
	"ms-booths/internal/models"
	"ms-booths/internal/utils"
)

// Every handler in this file runs behind auth.Middleware, so the principal in
// the context is Global or BoothScoped.

type whoamiResponse struct {
	Role           string  `json:"role"`
	AllowedBoothID *string `json:"allowedBoothId"`
}

func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	resp := whoamiResponse{Role: p.Role.String()}
	if p.Role == auth.RoleBooth {
		id := p.BoothID
		resp.AllowedBoothID = &id
	}
	_ = utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateBooth(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	if err := p.RequireGlobal(); err != nil {
		h.fail(w, r, err)
		return
	}

	var req models.CreateBoothRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	booth, err := h.Store.CreateBooth(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.LogBooth("CREATED", booth.ID, booth.Name)
	_ = utils.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": booth.ID})
}

func (h *Handler) SetBoothStatus(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var req models.BoothStatusRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	boothID := strings.TrimSpace(req.BoothID)
	if boothID == "" || req.IsOpen == nil {
		h.fail(w, r, apperr.Invalidf("boothId and isOpen (boolean) are required"))
		return
	}

	booth, err := h.Store.SetBoothStatus(boothID, *req.IsOpen, req.Reason, p.Authorize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state := "OPEN"
	if !booth.IsOpen {
		state = "CLOSED: " + booth.ClosedReason
	}
	h.Logger.LogBooth("STATUS", booth.ID, state)
	_ = utils.WriteJSON(w, http.StatusOK, models.BoothStatusResponse{
		OK:      true,
		BoothID: booth.ID,
		IsOpen:  booth.IsOpen,
		Reason:  booth.ClosedReason,
	})
}

func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var req models.CreateMenuRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	menu, err := h.Store.CreateMenuItem(req, p.Authorize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.LogBooth("MENU_CREATED", menu.BoothID, menu.ID)
	_ = utils.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": menu.ID})
}

func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	boothID, ok := h.scopedBoothQuery(w, r)
	if !ok {
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, map[string]any{"items": h.Store.MenuItemsByBooth(boothID)})
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	boothID, ok := h.scopedBoothQuery(w, r)
	if !ok {
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, map[string]any{"items": h.Store.ListReservations(boothID)})
}

func (h *Handler) SetReservationStatus(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var req models.ReservationStatusRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ID == nil || strings.TrimSpace(req.Status) == "" {
		h.fail(w, r, apperr.Invalidf("id and status are required"))
		return
	}
	if _, valid := models.ParseStatus(req.Status); !valid {
		h.fail(w, r, apperr.Invalidf("status must be one of CONFIRMED, DONE, CANCELLED"))
		return
	}
	id, ok := reservationID(req.ID)
	if !ok {
		h.fail(w, r, apperr.NotFoundf("reservation not found"))
		return
	}

	resv, err := h.Orders.SetStatus(r.Context(), id, req.Status, p.Authorize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, models.ReservationStatusResponse{OK: true, ID: resv.ID, Status: resv.Status})
}

func (h *Handler) RedeemPickup(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var req models.PickupRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	resv, err := h.Orders.RedeemPickup(r.Context(), req.Payload, p.Authorize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, resv)
}

func (h *Handler) BoothSummary(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	boothID := chi.URLParam(r, "boothId")

	sum, err := h.Store.Summary(boothID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := p.Authorize(boothID); err != nil {
		h.fail(w, r, err)
		return
	}
	_ = utils.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	url, err := h.Uploads.Save(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Logger.Info("UPLOAD", url)
	_ = utils.WriteJSON(w, http.StatusCreated, map[string]any{"ok": true, "url": url})
}

// scopedBoothQuery reads the required boothId query parameter and checks the
// caller's scope. It writes the error response itself.
func (h *Handler) scopedBoothQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	boothID := strings.TrimSpace(r.URL.Query().Get("boothId"))
	if boothID == "" {
		h.fail(w, r, apperr.Invalidf("boothId is required"))
		return "", false
	}
	if err := auth.FromContext(r.Context()).Authorize(boothID); err != nil {
		h.fail(w, r, err)
		return "", false
	}
	return boothID, true
}

// reservationID accepts a JSON number or a string of digits.
func reservationID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != float64(int64(id)) {
			return 0, false
		}
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	case string:
		s := strings.TrimSpace(id)
		if s == "" {
			return 0, false
		}
		for _, c := range s {
			if c < '0' || c > '9' {
				return 0, false
			}
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
