package model

import (
	"math"
	"time"
)

// Category groups menu items ("Starters", "Mains", ...).
type Category struct {
	ID   uint64 `json:"id"`   // categories.id
	Name string `json:"name"` // categories.name
}

// MenuItem is one dish on the menu.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – dish name.
//  Price       – price in the restaurant's currency, rounded to two
//                decimal places at write time.
//  Ingredients – free-text ingredient list.
//  ImageURL    – optional reference to an uploaded image.
//  CategoryID  – owning category.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type MenuItem struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Ingredients string    `json:"ingredients"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CategoryID  uint64    `json:"category_id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// RoundPrice normalizes a price to two decimal places. Applied on every
// write so stored prices are stable regardless of what the client sent.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}
