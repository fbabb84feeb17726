package entity

import "time"

type Product struct {
	ID           int       `json:"id"`
	ExternalID   string    `json:"external_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Keywords     []string  `json:"keywords"`
	Price        float64   `json:"price"`
	DiscountPct  float64   `json:"discount_pct"`
	FinalPrice   float64   `json:"final_price"`
	Calories     int       `json:"calories"`
	ProteinGrams float64   `json:"protein_grams"`
	FatGrams     float64   `json:"fat_grams"`
	CarbsGrams   float64   `json:"carbs_grams"`
	IsDiet       bool      `json:"is_diet"` // cached classifier verdict, stale between syncs
	CreatedAt    time.Time `json:"created_at"`
}

/*
Mysql Table

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	external_id VARCHAR(64) NOT NULL UNIQUE,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	category VARCHAR(100) NOT NULL,
	keywords TEXT NOT NULL,
	price DOUBLE NOT NULL,
	discount_pct DOUBLE NOT NULL,
	final_price DOUBLE NOT NULL,
	calories INT NOT NULL,
	protein_grams DOUBLE NOT NULL,
	fat_grams DOUBLE NOT NULL,
	carbs_grams DOUBLE NOT NULL,
	is_diet BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
*/
