package models

import "time"

type Brand struct {
	ID        int       `json:"id" validate:"required"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn" validate:"required"`
	ImageURL  string    `json:"imageUrl"`
	IsVisible bool      `json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID        int       `json:"id" validate:"required"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn" validate:"required"`
	ParentID  *int      `json:"parentId"`
	Order     int       `json:"order"`
	IsVisible bool      `json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`
}

type Color struct {
	ID        int       `json:"id" validate:"required"`
	NameAr    string    `json:"nameAr"`
	NameEn    string    `json:"nameEn" validate:"required"`
	ColorCode string    `json:"colorCode" validate:"required,hexcolor"`
	CreatedAt time.Time `json:"createdAt"`
}

type Size struct {
	ID        int       `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID            int       `json:"id" validate:"required"`
	NameAr        string    `json:"nameAr"`
	NameEn        string    `json:"nameEn" validate:"required"`
	DescriptionAr string    `json:"descriptionAr"`
	DescriptionEn string    `json:"descriptionEn"`
	Price         float64   `json:"price" validate:"gte=0"`
	DiscountPrice *float64  `json:"discountPrice"`
	Stock         int       `json:"stock" validate:"gte=0"`
	BrandID       int       `json:"brandId"`
	CategoryID    int       `json:"categoryId"`
	ImageURL      string    `json:"imageUrl"`
	IsVisible     bool      `json:"isVisible"`
	CreatedAt     time.Time `json:"createdAt"`
}
