package entity

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	OnDiet   bool   `json:"on_diet"`
}

/*
Mysql Schema:

CREATE TABLE users (
	id INT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(50) NOT NULL,
	email VARCHAR(50) NOT NULL,
	on_diet BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE UNIQUE INDEX email_idx ON users(email);
*/
