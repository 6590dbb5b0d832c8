package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/query"
)

// CreateReservation godoc
// @Summary Create a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Param body body model.CreateReservationRequest true "reservation"
// @Success 201 {object} model.Reservation
// @Failure 400 {object} errs.ValidationError
// @Failure 409 {object} errs.ErrorResponse
// @Router /reservations [post]
func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(err, errs.MissingFields, errs.MsgStatus)
	}
	res, err := h.reservationSvc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// ListReservations godoc
// @Summary List reservations
// @Tags reservations
// @Produce json
// @Param q query string false "free text"
// @Param status query string false "pending|paid|cancelled"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} model.ReservationPage
// @Router /reservations [get]
func (h *Handler) ListReservations(c echo.Context) error {
	q := query.Reservations(c.QueryParams())
	page, err := h.reservationSvc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) ReservationStats(c echo.Context) error {
	stats, err := h.reservationSvc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetReservationByCode(c echo.Context) error {
	res, err := h.reservationSvc.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetReservation(c echo.Context) error {
	res, err := h.reservationSvc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateReservation godoc
// @Summary Partially update a reservation
// @Description The reservation code cannot be changed; a code in the body is ignored.
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path string true "reservation id"
// @Param body body model.UpdateReservationRequest true "fields to change"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errs.ValidationError
// @Failure 404 {object} errs.ErrorResponse
// @Router /reservations/{id} [patch]
func (h *Handler) UpdateReservation(c echo.Context) error {
	var req model.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err)
	}
	if err := c.Validate(req); err != nil {
		return validationError(err, errs.MissingFields, errs.MsgStatus)
	}
	res, err := h.reservationSvc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	resp, err := h.reservationSvc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
