package domain

import (
	"time"
)

// DateLayout is the day-first date format used on the wire and in the form.
const DateLayout = "02/01/2006"

// Product is one inventory record as exchanged with the catalog backend.
// DateSold and PriceSold are null unless the record has been sold at least once.
type Product struct {
	ID          int64    `json:"id" csv:"id"`
	ProductName string   `json:"product_name" csv:"product_name"`
	ProductType string   `json:"product_type" csv:"product_type"`
	DateBought  string   `json:"date_bought" csv:"date_bought"`
	PriceBought float64  `json:"price_bought" csv:"price_bought"`
	DateSold    *string  `json:"date_sold" csv:"date_sold"`
	PriceSold   *float64 `json:"price_sold" csv:"price_sold"`
	Condition   string   `json:"condition" csv:"condition"`
	Image       *string  `json:"image" csv:"image"`
	IsSold      bool     `json:"is_sold" csv:"is_sold"`
}

// ProductRecord is the persisted form of a Product
type ProductRecord struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	ProductName string     `gorm:"size:100;not null;index"`
	ProductType string     `gorm:"size:50;not null;index"`
	DateBought  time.Time  `gorm:"not null"`
	PriceBought float64    `gorm:"not null"`
	DateSold    *time.Time
	PriceSold   *float64
	Condition   string     `gorm:"size:20;not null"`
	Image       *string    `gorm:"size:255"`
	IsSold      bool       `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName Specify table name
func (ProductRecord) TableName() string {
	return "product"
}

// Product converts the record to its wire shape.
func (r ProductRecord) Product() Product {
	p := Product{
		ID:          r.ID,
		ProductName: r.ProductName,
		ProductType: r.ProductType,
		DateBought:  r.DateBought.Format(DateLayout),
		PriceBought: r.PriceBought,
		PriceSold:   r.PriceSold,
		Condition:   r.Condition,
		Image:       r.Image,
		IsSold:      r.IsSold,
	}
	if r.DateSold != nil {
		s := r.DateSold.Format(DateLayout)
		p.DateSold = &s
	}
	return p
}

// FindProduct returns the product with the given id from a fetched collection.
func FindProduct(products []Product, id int64) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
