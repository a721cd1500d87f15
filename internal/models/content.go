package models

import "time"

type Slider struct {
	ID        int       `json:"id" validate:"required"`
	TitleAr   string    `json:"titleAr"`
	TitleEn   string    `json:"titleEn"`
	ImageURL  string    `json:"imageUrl" validate:"required"`
	Link      string    `json:"link"`
	Order     int       `json:"order"`
	IsVisible bool      `json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`
}

type FAQ struct {
	ID         int       `json:"id" validate:"required"`
	QuestionAr string    `json:"questionAr"`
	QuestionEn string    `json:"questionEn" validate:"required"`
	AnswerAr   string    `json:"answerAr"`
	AnswerEn   string    `json:"answerEn" validate:"required"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ContactInfo struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsApp"`
	AddressAr string `json:"addressAr"`
	AddressEn string `json:"addressEn"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

// StaticPage backs about-us, privacy policy and terms & conditions.
type StaticPage struct {
	ContentAr string    `json:"contentAr"`
	ContentEn string    `json:"contentEn"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Notification struct {
	ID       int       `json:"id" validate:"required"`
	TitleAr  string    `json:"titleAr"`
	TitleEn  string    `json:"titleEn" validate:"required"`
	BodyAr   string    `json:"bodyAr"`
	BodyEn   string    `json:"bodyEn"`
	Audience string    `json:"audience"`
	SentAt   time.Time `json:"sentAt"`
}
