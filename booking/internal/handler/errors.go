package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
)

const (
	msgInternal      = "Erreur serveur interne"
	msgGeneric       = "Une erreur est survenue"
	msgMalformedID   = "Identifiant invalide"
	msgNotFound      = "Ressource introuvable"
	msgExhausted     = "Impossible de générer un code unique"
	msgDuplicateCode = "Code de réservation déjà existant"
	msgUnavailable   = "Base de données indisponible"
	msgTimeout       = "La base de données ne répond pas"
	msgInvalidBody   = "Corps de requête invalide"
	msgInvalidFields = "Données invalides"
)

// fieldMessages maps "<field>.<tag>" validator failures to client messages.
var fieldMessages = map[string]string{
	"email.simple_email":      errs.MsgEmail,
	"startDate.calendar_date": errs.MsgStartDate,
	"endDate.calendar_date":   errs.MsgEndDate,
	"paymentMethod.oneof":     errs.MsgPaymentMethod,
}

type missingFunc func(missing []string) *errs.ValidationError

// validationError turns validator output into the structured 400 body. Absent
// or blank fields win over format failures.
func validationError(err error, onMissing missingFunc, statusMsg string) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	var missing []string
	for _, fe := range vErrs {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return onMissing(missing)
	}
	details := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		key := fe.Field() + "." + fe.Tag()
		if fe.Field() == "status" && fe.Tag() == "oneof" {
			details = append(details, statusMsg)
			continue
		}
		if msg, ok := fieldMessages[key]; ok {
			details = append(details, msg)
			continue
		}
		details = append(details, fe.Field()+": "+fe.Tag())
	}
	if len(details) == 1 {
		return errs.Validation(details[0])
	}
	return errs.Validation(msgInvalidFields, details...)
}

func bindError(err error) error {
	return &errs.ValidationError{Message: msgInvalidBody, Details: []string{err.Error()}}
}

func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := h.errorBody(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}

	if errors.Is(err, echo.ErrNotFound) {
		err = notFound(c)
	} else if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}

func (h *Handler) errorBody(err error) (int, interface{}) {
	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr
	}

	switch {
	case errors.Is(err, errs.ErrMalformedID):
		return http.StatusBadRequest, errs.ErrorResponse{Error: msgMalformedID}
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, errs.ErrorResponse{Error: msgNotFound}
	case errors.Is(err, errs.ErrDuplicateCode):
		return http.StatusConflict, errs.ErrorResponse{Error: msgDuplicateCode}
	case errors.Is(err, errs.ErrCodeGenerationExhausted):
		return http.StatusInternalServerError, errs.ErrorResponse{Error: msgExhausted}
	case errors.Is(err, errs.ErrStorageUnavailable):
		return h.serverError(http.StatusServiceUnavailable, msgUnavailable, err)
	case errors.Is(err, errs.ErrStorageTimeout):
		return h.serverError(http.StatusGatewayTimeout, msgTimeout, err)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return h.serverError(he.Code, msgInternal, err)
		}
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errs.ErrorResponse{Error: msg}
	}
	return h.serverError(http.StatusInternalServerError, msgInternal, err)
}

// serverError hides the cause outside development.
func (h *Handler) serverError(status int, msg string, err error) (int, interface{}) {
	if h.development() {
		return status, errs.ErrorResponse{Error: msg, Message: err.Error()}
	}
	return status, errs.ErrorResponse{Error: msg, Message: msgGeneric}
}
