package models

import "time"

type Mentor struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Expertise     []string  `json:"expertise" validate:"required,min=1,dive,required"`
	Experience    string    `json:"experience"`
	Bio           string    `json:"bio"`
	Rate          float64   `json:"rate" validate:"gt=0"`
	Availability  []string  `json:"availability"`
	WalletAddress string    `json:"wallet_address" validate:"required"`
	CreatedAt     time.Time `json:"created_at"`
}
