package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ruelucas/booking-service/booking/internal/errs"
	"github.com/ruelucas/booking-service/booking/internal/handler"
	service_mocks "github.com/ruelucas/booking-service/booking/internal/handler/mocks"
	"github.com/ruelucas/booking-service/booking/internal/model"
)

const validReservationBody = `{
	"email": "jeanne@example.com",
	"phoneNumber": "+33612345678",
	"firstName": "Jeanne",
	"surname": "Dupont",
	"street": "12 rue Lucas",
	"postcode": "75011",
	"city": "Paris",
	"country": "France",
	"startDate": "2026-07-01",
	"endDate": "2026-07-08",
	"paymentMethod": "card",
	"amountTotal": 840
}`

func validReservationRequest() model.CreateReservationRequest {
	return model.CreateReservationRequest{
		Email:         "jeanne@example.com",
		PhoneNumber:   "+33612345678",
		FirstName:     "Jeanne",
		Surname:       "Dupont",
		Street:        "12 rue Lucas",
		Postcode:      "75011",
		City:          "Paris",
		Country:       "France",
		StartDate:     "2026-07-01",
		EndDate:       "2026-07-08",
		PaymentMethod: "card",
		AmountTotal:   840,
	}
}

type mocks struct {
	reservations *service_mocks.MockReservationService
	reviews      *service_mocks.MockReviewService
}

func newServer(t *testing.T, opts ...handler.Option) (*echo.Echo, mocks) {
	c := gomock.NewController(t)
	m := mocks{
		reservations: service_mocks.NewMockReservationService(c),
		reviews:      service_mocks.NewMockReviewService(c),
	}
	h := handler.New(m.reservations, m.reviews, zap.NewNop(), opts...)
	return h.NewRouter(), m
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func trimmed(w *httptest.ResponseRecorder) string {
	return strings.Trim(w.Body.String(), "\n")
}

func TestHandler_CreateReservation(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		body         string
		env          string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "err. missing fields",
			body: `{"email":"jeanne@example.com","amountTotal":0}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Champs manquants: phoneNumber, firstName, surname, street, postcode, city, country, startDate, endDate, paymentMethod, amountTotal","missing":["phoneNumber","firstName","surname","street","postcode","city","country","startDate","endDate","paymentMethod","amountTotal"]}`,
			},
		},
		{
			name:         "err. blank field",
			body:         strings.Replace(validReservationBody, `"Paris"`, `"   "`, 1),
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Champs manquants: city","missing":["city"]}`,
			},
		},
		{
			name:         "err. bad email",
			body:         strings.Replace(validReservationBody, "jeanne@example.com", "jeanne.example.com", 1),
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Adresse email invalide"}`,
			},
		},
		{
			name:         "err. bad date",
			body:         strings.Replace(validReservationBody, `"2026-07-01"`, `"le 1er juillet"`, 1),
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Date de début invalide"}`,
			},
		},
		{
			name:         "err. malformed json",
			body:         `{"email":`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. negative amount",
			body: strings.Replace(validReservationBody, "840", "-5", 1),
			mockBehavior: func(r *service_mocks.MockReservationService) {
				req := validReservationRequest()
				req.AmountTotal = -5
				r.EXPECT().Create(gomock.Any(), req).Return(model.Reservation{}, errs.Validation(errs.MsgAmount))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"error":"Le montant total doit être positif"}`,
			},
		},
		{
			name: "err. duplicate code",
			body: validReservationBody,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Create(gomock.Any(), validReservationRequest()).Return(model.Reservation{}, errors.Wrap(errs.ErrDuplicateCode, "insert reservation"))
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"error":"Code de réservation déjà existant"}`,
			},
		},
		{
			name: "err. exhausted",
			body: validReservationBody,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errors.Wrap(errs.ErrCodeGenerationExhausted, "resolve reservation code"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"error":"Impossible de générer un code unique"}`,
			},
		},
		{
			name: "err. storage unavailable",
			body: validReservationBody,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(model.Reservation{}, errors.WithMessage(errs.ErrStorageUnavailable, "connection refused"))
			},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"error":"Base de données indisponible","message":"Une erreur est survenue"}`,
			},
		},
		{
			name: "err. internal in development",
			body: validReservationBody,
			env:  "development",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Reservation{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"error":"Erreur serveur interne","message":"db internal"}`,
			},
		},
		{
			name: "ok",
			body: validReservationBody,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Create(gomock.Any(), validReservationRequest()).Return(model.Reservation{
					ID:     "665f1c2e9b1d4a0012345678",
					Code:   "RL-ABC234",
					Status: model.StatusPending,
				}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m := newServer(t, handler.WithEnv(tt.env))
			tt.mockBehavior(m.reservations)

			w := do(e, http.MethodPost, "/reservations", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, trimmed(w))
			}
		})
	}
}

func TestHandler_CreateReservation_Body(t *testing.T) {
	t.Parallel()

	e, m := newServer(t)
	created := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	m.reservations.EXPECT().Create(gomock.Any(), validReservationRequest()).Return(model.Reservation{
		ID:        "665f1c2e9b1d4a0012345678",
		Code:      "RL-ABC234",
		Status:    model.StatusPending,
		Email:     "jeanne@example.com",
		CreatedAt: created,
	}, nil)

	w := do(e, http.MethodPost, "/reservations", validReservationBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var got model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "RL-ABC234", got.Code)
	require.Equal(t, "665f1c2e9b1d4a0012345678", got.ID)
	require.Equal(t, created, got.CreatedAt)
}

func TestHandler_ListReservations(t *testing.T) {
	t.Parallel()

	e, m := newServer(t)
	m.reservations.EXPECT().List(gomock.Any(), model.ReservationQuery{
		Filters:    model.ReservationFilters{Search: "dupont", Status: model.StatusPaid},
		Sort:       model.Sort{By: "createdAt", Order: model.Desc},
		Pagination: model.Pagination{Page: 1, Limit: 100},
	}).Return(model.ReservationPage{
		Items:   []model.Reservation{},
		Total:   0,
		Page:    1,
		Pages:   0,
		Filters: model.ReservationFilters{Search: "dupont", Status: model.StatusPaid},
		Sort:    model.Sort{By: "createdAt", Order: model.Desc},
	}, nil)

	w := do(e, http.MethodGet, "/reservations?q=dupont&status=paid&page=0&limit=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"items":[],"total":0,"page":1,"pages":0,"filters":{"q":"dupont","status":"paid","startDate":{},"endDate":{}},"sort":{"sortBy":"createdAt","sortOrder":"desc"}}`,
		trimmed(w))
}

func TestHandler_ReservationLookups(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockReservationService)

	var tests = []struct {
		name         string
		method       string
		target       string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:   "by code lower case",
			method: http.MethodGet,
			target: "/reservations/code/rl-abc123",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().GetByCode(gomock.Any(), "rl-abc123").Return(model.Reservation{Code: "RL-ABC123"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "by id malformed",
			method: http.MethodGet,
			target: "/reservations/abc",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Get(gomock.Any(), "abc").Return(model.Reservation{}, errs.ErrMalformedID)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Identifiant invalide"}`,
		},
		{
			name:   "stats route wins over id",
			method: http.MethodGet,
			target: "/reservations/stats",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Stats(gomock.Any()).Return(model.ReservationStats{
					Total:    2,
					ByStatus: model.StatusCounts{Pending: 1, Paid: 1},
					Revenue:  840,
					Recent:   []model.RecentReservation{},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"total":2,"byStatus":{"pending":1,"paid":1,"cancelled":0},"revenue":840,"recent":[]}`,
		},
		{
			name:   "delete unknown",
			method: http.MethodDelete,
			target: "/reservations/665f1c2e9b1d4a0000000000",
			mockBehavior: func(r *service_mocks.MockReservationService) {
				r.EXPECT().Delete(gomock.Any(), "665f1c2e9b1d4a0000000000").Return(model.DeleteReservationResponse{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Ressource introuvable"}`,
		},
		{
			name:   "patch drops code",
			method: http.MethodPatch,
			target: "/reservations/665f1c2e9b1d4a0012345678",
			body:   `{"code":"RL-HACKED","city":"Lyon"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {
				city := "Lyon"
				r.EXPECT().Update(gomock.Any(), "665f1c2e9b1d4a0012345678", model.UpdateReservationRequest{City: &city}).
					Return(model.Reservation{Code: "RL-ABC234", City: "Lyon"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "patch bad status",
			method:       http.MethodPatch,
			target:       "/reservations/665f1c2e9b1d4a0012345678",
			body:         `{"status":"archived"}`,
			mockBehavior: func(r *service_mocks.MockReservationService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Statut invalide (pending, paid ou cancelled)"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m := newServer(t)
			tt.mockBehavior(m.reservations)

			w := do(e, tt.method, tt.target, tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, trimmed(w))
			}
		})
	}
}

func TestHandler_Reviews(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockReviewService)

	five := 5
	var tests = []struct {
		name         string
		method       string
		target       string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name:         "put missing comment",
			method:       http.MethodPut,
			target:       "/api/reviews/665f1c2e9b1d4a0012345678",
			body:         `{"author":"Camille","rating":4}`,
			mockBehavior: func(r *service_mocks.MockReviewService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Tous les champs sont requis","missing":["comment"],"required":["author","rating","comment"]}`,
		},
		{
			name:         "post blank author",
			method:       http.MethodPost,
			target:       "/api/reviews",
			body:         `{"author":"  ","rating":4,"comment":"Top"}`,
			mockBehavior: func(r *service_mocks.MockReviewService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Tous les champs sont requis","missing":["author"],"required":["author","rating","comment"]}`,
		},
		{
			name:   "rating out of range",
			method: http.MethodPost,
			target: "/api/reviews",
			body:   `{"author":"Camille","rating":6,"comment":"Top"}`,
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Review{}, errs.Validation(errs.MsgRating))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"La note doit être entre 1 et 5"}`,
		},
		{
			name:   "create",
			method: http.MethodPost,
			target: "/api/reviews",
			body:   `{"author":"Camille","rating":5,"comment":"Top"}`,
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().Create(gomock.Any(), model.ReviewRequest{Author: "Camille", Rating: &five, Comment: "Top"}).
					Return(model.Review{ID: "665f1c2e9b1d4a0012345678", Rating: 5}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "list",
			method: http.MethodGet,
			target: "/api/reviews?rating=5",
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().List(gomock.Any(), model.ReviewQuery{
					Filters:    model.ReviewFilters{Rating: 5},
					Sort:       model.Sort{By: "date", Order: model.Desc},
					Pagination: model.Pagination{Page: 1, Limit: 20},
				}).Return(model.ReviewPage{Items: []model.Review{}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "delete unknown",
			method: http.MethodDelete,
			target: "/api/reviews/665f1c2e9b1d4a0000000000",
			mockBehavior: func(r *service_mocks.MockReviewService) {
				r.EXPECT().Delete(gomock.Any(), "665f1c2e9b1d4a0000000000").Return(model.Review{}, errs.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Ressource introuvable"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, m := newServer(t)
			tt.mockBehavior(m.reviews)

			w := do(e, tt.method, tt.target, tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, trimmed(w))
			}
		})
	}
}

func TestHandler_Meta(t *testing.T) {
	t.Parallel()

	e, _ := newServer(t)

	w := do(e, http.MethodGet, "/manage/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	w = do(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	require.Equal(t, true, health["ok"])
	require.Equal(t, handler.ServiceName, health["service"])

	w = do(e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"version":"1.0.0"`)

	w = do(e, http.MethodGet, "/nowhere", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var nf struct {
		Error           string   `json:"error"`
		AvailableRoutes []string `json:"availableRoutes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nf))
	require.Equal(t, "Route non trouvée", nf.Error)
	require.Contains(t, nf.AvailableRoutes, "POST /reservations")
}
