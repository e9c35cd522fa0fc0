package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientcrud/internal/api/dto"
	"github.com/martijn/clientcrud/internal/core/service"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	result, err := h.clientService.GetClients(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeResult(c, result)
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseClientID(c)
	if !ok {
		return
	}

	result, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeResult(c, result)
}

// SaveClient handles POST /clients. A body carrying an id updates that
// client.
func (h *ClientHandler) SaveClient(c *gin.Context) {
	var req dto.ClientRequest
	if !bindClient(c, &req) {
		return
	}

	h.saveOrUpdate(c, req)
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseClientID(c)
	if !ok {
		return
	}

	var req dto.ClientRequest
	if !bindClient(c, &req) {
		return
	}
	req.ID = id

	h.saveOrUpdate(c, req)
}

func (h *ClientHandler) saveOrUpdate(c *gin.Context, req dto.ClientRequest) {
	result, err := h.clientService.SaveOrUpdate(c.Request.Context(), req.ToDomain())
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeResult(c, result)
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := parseClientID(c)
	if !ok {
		return
	}

	result, err := h.clientService.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	writeResult(c, result)
}

// writeResult sends text messages as plain text and client data as JSON.
func writeResult(c *gin.Context, result *service.Result) {
	if msg, isText := result.Message(); isText {
		c.String(result.Status, msg)
		return
	}
	c.JSON(result.Status, result.Body)
}

func parseClientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid client ID",
			Code:    http.StatusBadRequest,
		})
		return 0, false
	}
	return id, true
}

func bindClient(c *gin.Context, req *dto.ClientRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return false
	}
	return true
}
