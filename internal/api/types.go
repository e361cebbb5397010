package api

import "time"

type User struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

// AuthResult is what every login flavour returns.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Board is a board with its columns and their cards, each slice in display
// order.
type Board struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	UserID  string   `json:"userId"`
	Columns []Column `json:"columns"`
}

type Column struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BoardID  string `json:"boardId"`
	Position int    `json:"position"`
	Cards    []Card `json:"cards"`
}

type Card struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ColumnID    string  `json:"columnId"`
	Position    int     `json:"position"`
}
