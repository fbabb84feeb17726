package migrations

import (
	"database/sql"
	"time"
)

func execWithRetry(db *sql.DB, query string, retries int) error {
	_, err := db.Exec(query)
	if err != nil {
		for i := 0; i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
			if err == nil {
				break
			}
		}
	}
	return err
}

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(50) NOT NULL,
			email VARCHAR(50) NOT NULL UNIQUE,
			on_diet BOOLEAN NOT NULL DEFAULT FALSE
		);
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateProducts creates the products table if it does not exist.
func AutoMigrateProducts(retries int, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS products (
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
	`
	return execWithRetry(db, query, retries)
}

// AutoMigrateOrders creates the orders and order_items tables on every shard.
func AutoMigrateOrders(retries int, dbs ...*sql.DB) error {
	ordersQuery := `
		CREATE TABLE IF NOT EXISTS orders (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			total DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX user_created_idx (user_id, created_at)
		);
	`
	itemsQuery := `
		CREATE TABLE IF NOT EXISTS order_items (
			id INT AUTO_INCREMENT PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL,
			unit_price DOUBLE NOT NULL,
			is_diet BOOLEAN NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);
	`
	for _, db := range dbs {
		if err := execWithRetry(db, ordersQuery, retries); err != nil {
			return err
		}
		if err := execWithRetry(db, itemsQuery, retries); err != nil {
			return err
		}
	}
	return nil
}
