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

type ColumnHandler struct {
	columnRepo repository.ColumnStore
	boardRepo  repository.BoardStore
}

func NewColumnHandler(columnRepo repository.ColumnStore, boardRepo repository.BoardStore) *ColumnHandler {
	return &ColumnHandler{
		columnRepo: columnRepo,
		boardRepo:  boardRepo,
	}
}

type ColumnNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create appends a column to the board in the path.
func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}

	var req ColumnNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		errorJSON(c, http.StatusBadRequest, "Column name is required")
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve board")
		return
	}
	if !checkOwner(c, board, userID) {
		return
	}

	position, err := h.columnRepo.NextPosition(c.Request.Context(), boardID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to determine column position")
		return
	}

	column := &model.Column{
		BoardID:  boardID,
		Name:     strings.TrimSpace(req.Name),
		Position: position,
	}

	if err := h.columnRepo.Create(c.Request.Context(), column); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create column")
		return
	}

	c.JSON(http.StatusCreated, newColumnResponse(column))
}

func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id", "column")
	if !ok {
		return
	}

	var req ColumnNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		errorJSON(c, http.StatusBadRequest, "Column name is required")
		return
	}

	column, ok := ownedColumn(c, h.columnRepo, h.boardRepo, columnID, userID)
	if !ok {
		return
	}

	column.Name = strings.TrimSpace(req.Name)
	if err := h.columnRepo.Update(c.Request.Context(), column); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": column.ID.String(), "name": column.Name})
}

func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id", "column")
	if !ok {
		return
	}

	if _, ok := ownedColumn(c, h.columnRepo, h.boardRepo, columnID, userID); !ok {
		return
	}

	if err := h.columnRepo.Delete(c.Request.Context(), columnID); err != nil {
		if errors.Is(err, repository.ErrColumnNotFound) {
			errorJSON(c, http.StatusNotFound, "Column not found")
			return
		}
		errorJSON(c, http.StatusInternalServerError, "Failed to delete column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Column deleted"})
}

// ownedColumn loads a column and checks that its board belongs to userID,
// writing the error response otherwise.
func ownedColumn(c *gin.Context, columns repository.ColumnStore, boards repository.BoardStore, columnID, userID uuid.UUID) (*model.Column, bool) {
	column, err := columns.GetByID(c.Request.Context(), columnID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve column")
		return nil, false
	}
	if column == nil {
		errorJSON(c, http.StatusNotFound, "Column not found")
		return nil, false
	}

	board, err := boards.GetByID(c.Request.Context(), column.BoardID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve board")
		return nil, false
	}
	if !checkOwner(c, board, userID) {
		return nil, false
	}
	return column, true
}
