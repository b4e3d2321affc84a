package models

import (
	"github.com/uptrace/bun"
)

type MenuOption struct {
	Code       string `json:"code"`
	Label      string `json:"label"`
	PriceDelta int64  `json:"priceDelta"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID       string       `bun:"menu_id,pk" json:"id"`
	BoothID  string       `bun:"booth_id" json:"boothId"`
	Name     string       `bun:"name" json:"name"`
	Price    int64        `bun:"price" json:"price"`
	ImageURL string       `bun:"image_url" json:"imageUrl"`
	MaxQty   int          `bun:"max_qty" json:"maxQty"` // 0 means unbounded
	Options  []MenuOption `bun:"options,type:json" json:"options"`
}

type CreateMenuRequest struct {
	ID       string       `json:"id"`
	BoothID  string       `json:"boothId"`
	Name     string       `json:"name"`
	Price    int64        `json:"price"`
	ImageURL string       `json:"imageUrl"`
	MaxQty   Quantity     `json:"maxQty"`
	Options  []MenuOption `json:"options"`
}
