package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/stayhub/internal/service/accommodations"
	"github.com/gin-gonic/gin"
)

type AccommodationHandler struct {
	service accommodations.AccommodationUseCase
}

type accommodationResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BasePrice   int64  `json:"base_price"`
}

func NewAccommodationHandler(service accommodations.AccommodationUseCase) *AccommodationHandler {
	return &AccommodationHandler{service: service}
}

func (h *AccommodationHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:accommodationId", h.get)
}

func (h *AccommodationHandler) list(c *gin.Context) {
	accommodations, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]accommodationResponse, 0, len(accommodations))
	for _, a := range accommodations {
		resp = append(resp, accommodationResponse{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			BasePrice:   a.BasePrice,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccommodationHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("accommodationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation id"})
		return
	}

	accommodation, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, accommodationResponse{
		ID:          accommodation.ID,
		Name:        accommodation.Name,
		Description: accommodation.Description,
		BasePrice:   accommodation.BasePrice,
	})
}
