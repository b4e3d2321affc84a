package models

import (
	"github.com/uptrace/bun"
)

type Booth struct {
	bun.BaseModel `bun:"table:booths"`

	ID           string `bun:"booth_id,pk" json:"id"`
	Name         string `bun:"name" json:"name"`
	Description  string `bun:"description" json:"description"`
	Capacity     int    `bun:"capacity" json:"capacity"`
	ImageURL     string `bun:"image_url" json:"imageUrl"`
	AdminKey     string `bun:"admin_key" json:"-"`
	IsOpen       bool   `bun:"is_open" json:"isOpen"`
	ClosedReason string `bun:"closed_reason" json:"closedReason"`
}

// PublicBooth is the view of a booth handed to non-administrative callers.
// It has no credential field at all.
type PublicBooth struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Capacity     int    `json:"capacity"`
	ImageURL     string `json:"imageUrl"`
	IsOpen       bool   `json:"isOpen"`
	ClosedReason string `json:"closedReason"`
}

func (b Booth) Public() PublicBooth {
	return PublicBooth{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		Capacity:     b.Capacity,
		ImageURL:     b.ImageURL,
		IsOpen:       b.IsOpen,
		ClosedReason: b.ClosedReason,
	}
}

type CreateBoothRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	AdminKey    string   `json:"adminKey"`
	Description string   `json:"description"`
	Capacity    Quantity `json:"capacity"`
	ImageURL    string   `json:"imageUrl"`
}

type BoothStatusRequest struct {
	BoothID string `json:"boothId"`
	IsOpen  *bool  `json:"isOpen"`
	Reason  string `json:"reason"`
}

type BoothStatusResponse struct {
	OK      bool   `json:"ok"`
	BoothID string `json:"boothId"`
	IsOpen  bool   `json:"isOpen"`
	Reason  string `json:"reason"`
}
