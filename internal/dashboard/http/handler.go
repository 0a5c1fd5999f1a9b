package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/roominglist-verifier/internal/dashboard"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/request"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/response"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

type Handler struct {
	service dashboard.Service
}

func NewHandler(service dashboard.Service) *Handler {
	return &Handler{service: service}
}

func bindID(c *gin.Context) (string, bool) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return "", false
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return "", false
	}
	return req.ID, true
}

func bindListQuery(c *gin.Context) (ListRoomingListsRequest, bool) {
	var req ListRoomingListsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return req, false
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return req, false
	}
	return req, true
}

func (h *Handler) ListRoomingLists(c *gin.Context) {
	req, ok := bindListQuery(c)
	if !ok {
		return
	}

	res, err := h.service.ListRoomingLists(c.Request.Context(), req.Search, req.statuses)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newRoomingListResponses(res.Cards), res.NoResults))
}

func (h *Handler) GetRoomingList(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	card, err := h.service.GetRoomingList(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRoomingListResponse(card))
}

func (h *Handler) ListBookings(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(bookings, len(bookings) == 0))
}

func (h *Handler) ListEvents(c *gin.Context) {
	req, ok := bindListQuery(c)
	if !ok {
		return
	}

	groups, err := h.service.ListEvents(c.Request.Context(), req.Search, req.statuses)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventResponse, len(groups))
	for i, g := range groups {
		items[i] = NewEventResponse(g)
	}
	c.JSON(http.StatusOK, response.NewListResponse(items, len(items) == 0))
}

func (h *Handler) CreateSession(c *gin.Context) {
	st, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSessionResponse(st))
}

func (h *Handler) GetSession(c *gin.Context) {
	h.sessionAction(c, h.service.GetSession)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) OpenFilter(c *gin.Context) {
	h.sessionAction(c, h.service.OpenFilter)
}

func (h *Handler) ClearFilter(c *gin.Context) {
	h.sessionAction(c, h.service.ClearFilter)
}

func (h *Handler) SaveFilter(c *gin.Context) {
	h.sessionAction(c, h.service.SaveFilter)
}

func (h *Handler) DismissFilter(c *gin.Context) {
	h.sessionAction(c, h.service.DismissFilter)
}

func (h *Handler) ToggleStatus(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var body ToggleStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	status, err := store.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	st, err := h.service.ToggleStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSessionResponse(st))
}

// sessionAction runs a body-less session operation and renders the new state.
func (h *Handler) sessionAction(c *gin.Context, op func(ctx context.Context, id string) (dashboard.SessionState, error)) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	st, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSessionResponse(st))
}

func (h *Handler) SessionRoomingLists(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req SessionRoomingListsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	res, err := h.service.SessionRoomingLists(c.Request.Context(), id, req.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(newRoomingListResponses(res.Cards), res.NoResults))
}

func (h *Handler) VerifyBookings(c *gin.Context) {
	var req VerifyBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	v, err := h.service.VerifyBookings(c.Request.Context(), req.RoomingListID, req.observed())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVerdictResponse(v))
}

func (h *Handler) VerifyVisible(c *gin.Context) {
	var req VerifyVisibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	check, err := req.check()
	if err != nil {
		response.Error(c, err)
		return
	}

	v, err := h.service.VerifyVisible(c.Request.Context(), check)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewVerdictResponse(v))
}
