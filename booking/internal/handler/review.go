package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/query"
)

func (h *Handler) bindReview(c echo.Context) (model.ReviewRequest, error) {
	var req model.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return model.ReviewRequest{}, bindError(err)
	}
	if err := c.Validate(req); err != nil {
		return model.ReviewRequest{}, validationError(err, errs.ReviewFieldsRequired, errs.MsgReviewStatus)
	}
	return req, nil
}

func (h *Handler) ListReviews(c echo.Context) error {
	q := query.Reviews(c.QueryParams())
	page, err := h.reviewSvc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// CreateReview godoc
// @Summary Create a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param body body model.ReviewRequest true "review"
// @Success 201 {object} model.Review
// @Failure 400 {object} errs.ValidationError
// @Router /api/reviews [post]
func (h *Handler) CreateReview(c echo.Context) error {
	req, err := h.bindReview(c)
	if err != nil {
		return err
	}
	rv, err := h.reviewSvc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rv)
}

func (h *Handler) GetReview(c echo.Context) error {
	rv, err := h.reviewSvc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) ReplaceReview(c echo.Context) error {
	req, err := h.bindReview(c)
	if err != nil {
		return err
	}
	rv, err := h.reviewSvc.Replace(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) DeleteReview(c echo.Context) error {
	rv, err := h.reviewSvc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Avis supprimé",
		"deleted": rv,
	})
}
