package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quantity accepts a JSON number, a numeric string or null. Missing, null and
// empty values decode to zero.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*q = 0
			return nil
		}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*q = Quantity(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("quantity must be an integer, got %s", raw)
	}
	// float64(math.MaxInt) rounds up to 2^63 on 64-bit platforms.
	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return fmt.Errorf("quantity %s is out of range", raw)
	}
	*q = Quantity(int(f))
	return nil
}

type OrderItemRequest struct {
	MenuID string   `json:"menuId"`
	Qty    Quantity `json:"qty"`
}

type OrderRequest struct {
	BoothID     string             `json:"boothId"`
	StudentNo   string             `json:"studentNo"`
	StudentName string             `json:"studentName"`
	Phone       string             `json:"phone"`
	Items       []OrderItemRequest `json:"items"`
}

type OrderResponse struct {
	OK    bool  `json:"ok"`
	ID    int64 `json:"id"`
	Total int64 `json:"total"`
}
