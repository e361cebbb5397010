package handler

import (
	"net/http"
	"strings"

	"kanny/internal/model"
	"kanny/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const MaxBoardsPerUser = 5

// DefaultColumns seeds every new board.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// DefaultBoardName names the board created for users that have none.
const DefaultBoardName = "My Board"

type BoardHandler struct {
	boardRepo repository.BoardStore
}

func NewBoardHandler(boardRepo repository.BoardStore) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
	}
}

type BoardNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create creates a new board for the authenticated user
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req BoardNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		errorJSON(c, http.StatusBadRequest, "Board name is required")
		return
	}

	// Check if user already has the maximum number of boards
	count, err := h.boardRepo.CountOwned(c.Request.Context(), ownerID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to check board count")
		return
	}

	if count >= MaxBoardsPerUser {
		errorJSON(c, http.StatusForbidden, "Maximum number of boards reached (5)")
		return
	}

	board, err := h.createSeeded(c, ownerID, strings.TrimSpace(req.Name))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, newBoardSummary(board))
}

func (h *BoardHandler) createSeeded(c *gin.Context, ownerID uuid.UUID, name string) (*model.Board, error) {
	board := &model.Board{
		Name:    name,
		OwnerID: ownerID,
	}
	for i, title := range DefaultColumns {
		board.Columns = append(board.Columns, model.Column{Name: title, Position: i})
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		return nil, err
	}
	return board, nil
}

func (h *BoardHandler) GetAll(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetOwned(c.Request.Context(), ownerID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load boards")
		return
	}

	response := make([]BoardSummaryResponse, len(boards))
	for i := range boards {
		response[i] = newBoardSummary(&boards[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetCurrent returns the user's oldest board, creating one when the user has
// none yet.
func (h *BoardHandler) GetCurrent(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardRepo.GetOwned(c.Request.Context(), ownerID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load board")
		return
	}

	var boardID uuid.UUID
	if len(boards) > 0 {
		boardID = boards[0].ID
	} else {
		board, err := h.createSeeded(c, ownerID, DefaultBoardName)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to load board")
			return
		}
		boardID = board.ID
	}

	tree, err := h.boardRepo.GetTree(c.Request.Context(), boardID)
	if err != nil || tree == nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load board")
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(tree))
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}

	board, err := h.boardRepo.GetTree(c.Request.Context(), boardID)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to load board")
		return
	}
	if !checkOwner(c, board, userID) {
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
		return
	}

	var req BoardNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		errorJSON(c, http.StatusBadRequest, "Board name is required")
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

	board.Name = strings.TrimSpace(req.Name)
	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": board.ID.String(), "name": board.Name})
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	boardID, ok := paramID(c, "id", "board")
	if !ok {
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

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to delete board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted"})
}

// checkOwner answers 404 for a missing board and 403 for someone else's.
func checkOwner(c *gin.Context, board *model.Board, userID uuid.UUID) bool {
	if board == nil {
		errorJSON(c, http.StatusNotFound, "Board not found")
		return false
	}
	if board.OwnerID != userID {
		errorJSON(c, http.StatusForbidden, "Forbidden: you don't have access to this board")
		return false
	}
	return true
}
