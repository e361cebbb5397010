package handler

import (
	"net/http"
	"time"

	"kanny/internal/middleware"
	"kanny/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

type BoardSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
}

type BoardResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	UserID  string           `json:"userId"`
	Columns []ColumnResponse `json:"columns"`
}

type ColumnResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	BoardID  string         `json:"boardId"`
	Position int            `json:"position"`
	Cards    []CardResponse `json:"cards"`
}

type CardResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ColumnID    string  `json:"columnId"`
	Position    int     `json:"position"`
}

func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// currentUserID reads the ID set by the auth middleware, writing an error
// response when it is missing.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		errorJSON(c, http.StatusUnauthorized, "Not authenticated")
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		errorJSON(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

// paramID parses a UUID path parameter, answering 400 when malformed.
func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

func newBoardSummary(b *model.Board) BoardSummaryResponse {
	return BoardSummaryResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		UserID:    b.OwnerID.String(),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func newBoardResponse(b *model.Board) BoardResponse {
	resp := BoardResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		UserID:  b.OwnerID.String(),
		Columns: make([]ColumnResponse, len(b.Columns)),
	}
	for i := range b.Columns {
		resp.Columns[i] = newColumnResponse(&b.Columns[i])
	}
	return resp
}

func newColumnResponse(col *model.Column) ColumnResponse {
	resp := ColumnResponse{
		ID:       col.ID.String(),
		Name:     col.Name,
		BoardID:  col.BoardID.String(),
		Position: col.Position,
		Cards:    make([]CardResponse, len(col.Cards)),
	}
	for i := range col.Cards {
		resp.Cards[i] = newCardResponse(&col.Cards[i])
	}
	return resp
}

func newCardResponse(card *model.Card) CardResponse {
	return CardResponse{
		ID:          card.ID.String(),
		Title:       card.Title,
		Description: card.Description,
		ColumnID:    card.ColumnID.String(),
		Position:    card.Position,
	}
}
