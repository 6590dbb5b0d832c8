package errs

import (
	"errors"
	"strings"

	"github.com/ruelucas/booking-service/pkg/codegen"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrMalformedID             = errors.New("malformed id")
	ErrDuplicateCode           = errors.New("duplicate code")
	ErrCodeGenerationExhausted = codegen.ErrExhausted
	ErrStorageUnavailable      = errors.New("storage unavailable")
	ErrStorageTimeout          = errors.New("storage timeout")
)

// ValidationError is rendered as-is with status 400.
type ValidationError struct {
	Message  string   `json:"error"`
	Missing  []string `json:"missing,omitempty"`
	Required []string `json:"required,omitempty"`
	Details  []string `json:"details,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func Validation(msg string, details ...string) *ValidationError {
	return &ValidationError{Message: msg, Details: details}
}

func MissingFields(missing []string) *ValidationError {
	return &ValidationError{
		Message: "Champs manquants: " + strings.Join(missing, ", "),
		Missing: missing,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

const (
	MsgDateOrder     = "La date de début doit être antérieure à la date de fin"
	MsgDateInPast    = "La date de début ne peut pas être dans le passé"
	MsgAmount        = "Le montant total doit être positif"
	MsgStartDate     = "Date de début invalide"
	MsgEndDate       = "Date de fin invalide"
	MsgEmail         = "Adresse email invalide"
	MsgPaymentMethod = "Moyen de paiement invalide (card ou paypal)"
	MsgStatus        = "Statut invalide (pending, paid ou cancelled)"
	MsgEmptyFields   = "Champs vides: "

	MsgReviewRequired = "Tous les champs sont requis"
	MsgRating         = "La note doit être entre 1 et 5"
	MsgReviewStatus   = "Statut invalide (pending, approved ou rejected)"
)

var ReviewRequiredFields = []string{"author", "rating", "comment"}

func ReviewFieldsRequired(missing []string) *ValidationError {
	return &ValidationError{
		Message:  MsgReviewRequired,
		Missing:  missing,
		Required: ReviewRequiredFields,
	}
}
