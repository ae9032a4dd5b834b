package models

// Client is a customer the portal builds reports for.
type Client struct {
	ID       string `json:"id" db:"id"`
	Nome     string `json:"nome" db:"nome"`
	LogoPath string `json:"logo_path" db:"logo_path"`
}
