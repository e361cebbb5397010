package handler

import (
	"errors"
	"net/http"
	"strings"

	"kanny/internal/model"
	"kanny/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo   repository.CardStore
	columnRepo repository.ColumnStore
	boardRepo  repository.BoardStore
}

func NewCardHandler(cardRepo repository.CardStore, columnRepo repository.ColumnStore, boardRepo repository.BoardStore) *CardHandler {
	return &CardHandler{
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
	}
}

// CardRequest is the body of card create and update calls
type CardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// CardMoveRequest is the body of a card move
type CardMoveRequest struct {
	ColumnID string `json:"columnId" binding:"required,uuid"`
	Position *int   `json:"position" binding:"required,min=0"`
}

// Create appends a card to the column in the path
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id", "column")
	if !ok {
		return
	}

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		errorJSON(c, http.StatusBadRequest, "Card title is required")
		return
	}

	if _, ok := ownedColumn(c, h.columnRepo, h.boardRepo, columnID, userID); !ok {
		return
	}

	// New cards go to the end of the column
	count, err := h.cardRepo.CountInColumn(c.Request.Context(), columnID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	card := &model.Card{
		ColumnID:    columnID,
		Title:       strings.TrimSpace(req.Title),
		Description: normalizeDescription(req.Description),
		Position:    int(count),
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	c.JSON(http.StatusCreated, newCardResponse(card))
}

// Update replaces the title and description of a card
func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return
	}

	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		errorJSON(c, http.StatusBadRequest, "Card title is required")
		return
	}

	card, ok := h.ownedCard(c, cardID, userID)
	if !ok {
		return
	}

	card.Title = strings.TrimSpace(req.Title)
	card.Description = normalizeDescription(req.Description)
	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		h.writeCardError(c, err, "Failed to update card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": card.ID.String(), "title": card.Title, "description": card.Description})
}

// Delete removes a card
func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return
	}

	if _, ok := h.ownedCard(c, cardID, userID); !ok {
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), cardID); err != nil {
		h.writeCardError(c, err, "Failed to delete card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}

// Move places a card at a position in a column of the same board
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	cardID, ok := paramID(c, "id", "card")
	if !ok {
		return
	}

	var req CardMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid move: column and position are required")
		return
	}
	targetID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid column ID format")
		return
	}

	card, ok := h.ownedCard(c, cardID, userID)
	if !ok {
		return
	}
	source, err := h.columnRepo.GetByID(c.Request.Context(), card.ColumnID)
	if err != nil || source == nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve column")
		return
	}
	target, ok := ownedColumn(c, h.columnRepo, h.boardRepo, targetID, userID)
	if !ok {
		return
	}
	if target.BoardID != source.BoardID {
		errorJSON(c, http.StatusBadRequest, "Cards can only move within their board")
		return
	}

	if err := h.cardRepo.Move(c.Request.Context(), cardID, targetID, *req.Position); err != nil {
		h.writeCardError(c, err, "Failed to move card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card moved"})
}

// ownedCard loads a card and checks that the board holding it belongs to
// userID.
func (h *CardHandler) ownedCard(c *gin.Context, cardID, userID uuid.UUID) (*model.Card, bool) {
	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		h.writeCardError(c, err, "Failed to retrieve card")
		return nil, false
	}
	if _, ok := ownedColumn(c, h.columnRepo, h.boardRepo, card.ColumnID, userID); !ok {
		return nil, false
	}
	return card, true
}

func (h *CardHandler) writeCardError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, repository.ErrCardNotFound) {
		errorJSON(c, http.StatusNotFound, "Card not found")
		return
	}
	errorJSON(c, http.StatusInternalServerError, fallback)
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
