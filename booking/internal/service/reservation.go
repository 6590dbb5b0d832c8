package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/model"
	"github.com/ruelucas/booking-service/booking/internal/repository"
	"github.com/ruelucas/booking-service/pkg/codegen"
	"github.com/ruelucas/booking-service/pkg/validate"
)

const msgDeleted = "Réservation supprimée"

type Reservations struct {
	repo     repository.ReservationRepository
	log      *zap.Logger
	events   EventPublisher
	resolver *codegen.Resolver
	timeout  time.Duration
	now      func() time.Time
}

func newReservations(repo repository.ReservationRepository, log *zap.Logger, s settings) *Reservations {
	return &Reservations{
		repo:   repo,
		log:    log,
		events: s.events,
		resolver: &codegen.Resolver{
			Prefix:      s.codePrefix,
			MaxAttempts: codegen.DefaultMaxAttempts,
			Generate:    s.generate,
		},
		timeout: s.storageTimeout,
		now:     s.now,
	}
}

// checkDates enforces start < end and start not before now.
func (s *Reservations) checkDates(start, end time.Time) error {
	if start.Before(s.now()) {
		return errs.Validation(errs.MsgDateInPast)
	}
	if !start.Before(end) {
		return errs.Validation(errs.MsgDateOrder)
	}
	return nil
}

func (s *Reservations) Create(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	res, err := s.newReservation(req)
	if err != nil {
		return model.Reservation{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		code, err := s.resolver.Resolve(ctx, s.repo.CodeExists)
		if err != nil {
			return model.Reservation{}, errors.Wrap(err, "resolve reservation code")
		}
		res.Code = code
		created, err := s.repo.Create(ctx, res)
		if err == nil {
			s.publish(ctx, model.ReservationCreated, created)
			return created, nil
		}
		if !errors.Is(err, errs.ErrDuplicateCode) || attempt >= maxInsertAttempts {
			return model.Reservation{}, err
		}
		s.log.Warn("code taken at insert, regenerating",
			zap.String("code", code), zap.Int("attempt", attempt))
	}
}

func (s *Reservations) newReservation(req model.CreateReservationRequest) (model.Reservation, error) {
	if !validate.IsEmail(req.Email) {
		return model.Reservation{}, errs.Validation(errs.MsgEmail)
	}
	start, ok := model.ParseDate(req.StartDate)
	if !ok {
		return model.Reservation{}, errs.Validation(errs.MsgStartDate)
	}
	end, ok := model.ParseDate(req.EndDate)
	if !ok {
		return model.Reservation{}, errs.Validation(errs.MsgEndDate)
	}
	if err := s.checkDates(start, end); err != nil {
		return model.Reservation{}, err
	}
	if req.AmountTotal <= 0 {
		return model.Reservation{}, errs.Validation(errs.MsgAmount)
	}
	pm := model.PaymentMethod(req.PaymentMethod)
	if !pm.Valid() {
		return model.Reservation{}, errs.Validation(errs.MsgPaymentMethod)
	}
	status := model.StatusPending
	if req.Status != "" {
		status = model.Status(req.Status)
		if !status.Valid() {
			return model.Reservation{}, errs.Validation(errs.MsgStatus)
		}
	}
	return model.Reservation{
		Status:        status,
		Email:         strings.TrimSpace(req.Email),
		PhoneNumber:   req.PhoneNumber,
		FirstName:     req.FirstName,
		Surname:       req.Surname,
		Street:        req.Street,
		Postcode:      req.Postcode,
		City:          req.City,
		Country:       req.Country,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: pm,
		AmountTotal:   req.AmountTotal,
	}, nil
}

func (s *Reservations) Get(ctx context.Context, id string) (model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Reservations) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return model.Reservation{}, errs.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.GetByCode(ctx, code)
}

func (s *Reservations) List(ctx context.Context, q model.ReservationQuery) (model.ReservationPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return model.ReservationPage{}, err
	}
	return model.NewPage(items, total, q.Pagination, q.Filters, q.Sort), nil
}

func (s *Reservations) Stats(ctx context.Context) (model.ReservationStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	stats, err := s.repo.Stats(ctx, model.RecentReservationsLimit)
	if err != nil {
		return model.ReservationStats{}, err
	}
	if stats.Recent == nil {
		stats.Recent = []model.RecentReservation{}
	}
	return stats, nil
}

func (s *Reservations) Update(ctx context.Context, id string, req model.UpdateReservationRequest) (model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	patch, err := s.patch(req, existing)
	if err != nil {
		return model.Reservation{}, err
	}
	if patch.Empty() {
		return existing, nil
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(ctx, model.ReservationUpdated, updated)
	return updated, nil
}

type namedField struct {
	name string
	val  *string
}

func (s *Reservations) patch(req model.UpdateReservationRequest, existing model.Reservation) (model.ReservationPatch, error) {
	fields := []namedField{
		{"email", req.Email},
		{"phoneNumber", req.PhoneNumber},
		{"firstName", req.FirstName},
		{"surname", req.Surname},
		{"street", req.Street},
		{"postcode", req.Postcode},
		{"city", req.City},
		{"country", req.Country},
		{"startDate", req.StartDate},
		{"endDate", req.EndDate},
		{"paymentMethod", req.PaymentMethod},
		{"status", req.Status},
	}
	var empty []string
	for _, f := range fields {
		if f.val != nil && strings.TrimSpace(*f.val) == "" {
			empty = append(empty, f.name)
		}
	}
	if len(empty) > 0 {
		return model.ReservationPatch{}, &errs.ValidationError{
			Message: errs.MsgEmptyFields + strings.Join(empty, ", "),
			Missing: empty,
		}
	}

	p := model.ReservationPatch{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		Surname:     req.Surname,
		Street:      req.Street,
		Postcode:    req.Postcode,
		City:        req.City,
		Country:     req.Country,
		AmountTotal: req.AmountTotal,
	}
	if req.Email != nil && !validate.IsEmail(*req.Email) {
		return model.ReservationPatch{}, errs.Validation(errs.MsgEmail)
	}
	if req.AmountTotal != nil && *req.AmountTotal <= 0 {
		return model.ReservationPatch{}, errs.Validation(errs.MsgAmount)
	}
	if req.PaymentMethod != nil {
		pm := model.PaymentMethod(*req.PaymentMethod)
		if !pm.Valid() {
			return model.ReservationPatch{}, errs.Validation(errs.MsgPaymentMethod)
		}
		p.PaymentMethod = &pm
	}
	if req.Status != nil {
		st := model.Status(*req.Status)
		if !st.Valid() {
			return model.ReservationPatch{}, errs.Validation(errs.MsgStatus)
		}
		p.Status = &st
	}

	if req.StartDate == nil && req.EndDate == nil {
		return p, nil
	}
	start, end := existing.StartDate, existing.EndDate
	if req.StartDate != nil {
		t, ok := model.ParseDate(*req.StartDate)
		if !ok {
			return model.ReservationPatch{}, errs.Validation(errs.MsgStartDate)
		}
		start = t
		p.StartDate = &t
	}
	if req.EndDate != nil {
		t, ok := model.ParseDate(*req.EndDate)
		if !ok {
			return model.ReservationPatch{}, errs.Validation(errs.MsgEndDate)
		}
		end = t
		p.EndDate = &t
	}
	if err := s.checkDates(start, end); err != nil {
		return model.ReservationPatch{}, err
	}
	return p, nil
}

func (s *Reservations) Delete(ctx context.Context, id string) (model.DeleteReservationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return model.DeleteReservationResponse{}, err
	}
	s.publish(ctx, model.ReservationDeleted, deleted)
	return model.DeleteReservationResponse{
		OK:      true,
		Message: msgDeleted,
		Deleted: deleted.Summary(),
	}, nil
}

// publish never fails the request: the write has already happened.
func (s *Reservations) publish(ctx context.Context, t model.EventType, r model.Reservation) {
	e := model.NewReservationEvent(t, r, s.now().UTC())
	if err := s.events.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.log.Warn("publish reservation event",
			zap.String("type", string(t)), zap.String("code", r.Code), zap.Error(err))
	}
}
