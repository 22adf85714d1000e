package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/Domenick1991/stayhub/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

type ReservationHandler struct {
	service reservation.ReservationUseCase
}

type holdRequest struct {
	MemberID int64  `json:"member_id" validate:"required,gt=0"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
}

type confirmRequest struct {
	MemberID int64  `json:"member_id" validate:"required,gt=0"`
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Message  string `json:"message" validate:"max=500"`
}

func NewReservationHandler(service reservation.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/accommodations/:accommodationId/hold", h.hold)
	router.POST("/accommodations/:accommodationId", h.confirm)
	router.DELETE("/:reservationId", h.cancel)
}

func (h *ReservationHandler) hold(c *gin.Context) {
	accommodationID, err := strconv.ParseInt(c.Param("accommodationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation id"})
		return
	}

	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, _ := time.Parse(dateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dateLayout, req.CheckOut)

	admitted, err := h.service.TentativelyReserve(c.Request.Context(), accommodationID, req.MemberID, checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admitted": admitted})
}

func (h *ReservationHandler) confirm(c *gin.Context) {
	accommodationID, err := strconv.ParseInt(c.Param("accommodationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid accommodation id"})
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, _ := time.Parse(dateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dateLayout, req.CheckOut)

	id, err := h.service.Confirm(c.Request.Context(), reservation.ConfirmInput{
		AccommodationID: accommodationID,
		MemberID:        req.MemberID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Message:         req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("reservationId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservation id"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), reservationID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAccommodationNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyReserved),
		errors.Is(err, domain.ErrHoldNotFound):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
