package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"unilib-backend/internal/security"
	"unilib-backend/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         service.AuthService
	Catalog      service.CatalogService
	Rooms        service.RoomService
	Availability service.AvailabilityService
	Reservations service.ReservationService
	Transactions service.TransactionService
	Renewals     service.RenewalService
	Users        service.UserService
}

// NewRouter wires every route under /api/v1. Catalog reads and the
// availability grid are public; everything else needs a token, and admin
// routes need the ADMIN role.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	root := mux.NewRouter()
	root.Use(RequestID)

	api := root.PathPrefix("/api/v1").Subrouter()
	authn := NewAuthenticator(tokens)

	authHandler := NewAuthHandler(h.Auth)
	bookHandler := NewBookHandler(h.Catalog)
	categoryHandler := NewCategoryHandler(h.Catalog)
	roomHandler := NewRoomHandler(h.Rooms)
	slotHandler := NewRoomTimeslotHandler(h.Availability)
	reservationHandler := NewReservationHandler(h.Reservations)
	transactionHandler := NewTransactionHandler(h.Transactions)
	renewHandler := NewRenewHandler(h.Renewals)
	userHandler := NewUserHandler(h.Users)

	// Auth
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	// Catalog, public reads
	api.HandleFunc("/books", bookHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", bookHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/categories", categoryHandler.List).Methods(http.MethodGet)
	api.Handle("/books", authn.RequireAdmin(http.HandlerFunc(bookHandler.Create))).Methods(http.MethodPost)
	api.Handle("/books/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(bookHandler.Update))).Methods(http.MethodPatch)
	api.Handle("/books/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(bookHandler.Delete))).Methods(http.MethodDelete)
	api.Handle("/categories", authn.RequireAdmin(http.HandlerFunc(categoryHandler.Create))).Methods(http.MethodPost)
	api.Handle("/categories/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(categoryHandler.Update))).Methods(http.MethodPatch)
	api.Handle("/categories/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(categoryHandler.Delete))).Methods(http.MethodDelete)

	// Rooms, types, timeslots
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id:[0-9]+}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/room-types", roomHandler.ListRoomTypes).Methods(http.MethodGet)
	api.HandleFunc("/timeslots", roomHandler.ListTimeslots).Methods(http.MethodGet)
	api.Handle("/rooms", authn.RequireAdmin(http.HandlerFunc(roomHandler.Create))).Methods(http.MethodPost)
	api.Handle("/rooms/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(roomHandler.Update))).Methods(http.MethodPatch)
	api.Handle("/rooms/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(roomHandler.Delete))).Methods(http.MethodDelete)
	api.Handle("/room-types", authn.RequireAdmin(http.HandlerFunc(roomHandler.CreateRoomType))).Methods(http.MethodPost)
	api.Handle("/room-types/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(roomHandler.UpdateRoomType))).Methods(http.MethodPatch)
	api.Handle("/room-types/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(roomHandler.DeleteRoomType))).Methods(http.MethodDelete)
	api.Handle("/timeslots", authn.RequireAdmin(http.HandlerFunc(roomHandler.CreateTimeslot))).Methods(http.MethodPost)
	api.Handle("/timeslots/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(roomHandler.DeleteTimeslot))).Methods(http.MethodDelete)

	// Availability grid and admin override
	api.HandleFunc("/room-timeslots", slotHandler.Grid).Methods(http.MethodGet)
	api.Handle("/room-timeslots/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(slotHandler.SetStatus))).Methods(http.MethodPatch)

	// Reservations
	api.Handle("/reservations", authn.Require(http.HandlerFunc(reservationHandler.Create))).Methods(http.MethodPost)
	api.Handle("/reservations", authn.Require(http.HandlerFunc(reservationHandler.List))).Methods(http.MethodGet)
	api.Handle("/reservations/{id:[0-9]+}", authn.Require(http.HandlerFunc(reservationHandler.Get))).Methods(http.MethodGet)
	api.Handle("/reservations/{id:[0-9]+}", authn.Require(http.HandlerFunc(reservationHandler.Update))).Methods(http.MethodPatch)
	api.Handle("/reservations/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(reservationHandler.Delete))).Methods(http.MethodDelete)

	// Transactions
	api.Handle("/transactions", authn.Require(http.HandlerFunc(transactionHandler.Create))).Methods(http.MethodPost)
	api.Handle("/transactions", authn.Require(http.HandlerFunc(transactionHandler.List))).Methods(http.MethodGet)
	api.Handle("/transactions/{id:[0-9]+}", authn.Require(http.HandlerFunc(transactionHandler.Get))).Methods(http.MethodGet)
	api.Handle("/transactions/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(transactionHandler.Update))).Methods(http.MethodPatch)

	// Renewals
	api.Handle("/renews", authn.Require(http.HandlerFunc(renewHandler.Create))).Methods(http.MethodPost)
	api.Handle("/renews", authn.RequireAdmin(http.HandlerFunc(renewHandler.List))).Methods(http.MethodGet)
	api.Handle("/renews/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(renewHandler.Decide))).Methods(http.MethodPatch)

	// Users (admin)
	api.Handle("/users", authn.RequireAdmin(http.HandlerFunc(userHandler.List))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(userHandler.Get))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(userHandler.Update))).Methods(http.MethodPatch)
	api.Handle("/users/{id:[0-9]+}", authn.RequireAdmin(http.HandlerFunc(userHandler.Delete))).Methods(http.MethodDelete)

	// Liveness
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return root
}
