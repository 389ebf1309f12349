package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wricardo/concert-booking/booking/engine"
	"github.com/wricardo/concert-booking/booking/service"
	"github.com/wricardo/concert-booking/protocol"
	"github.com/wricardo/concert-booking/transport/websocket"
)

// Server represents the REST API server.
type Server struct {
	service service.BookingService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server.
func NewServer(bookingService service.BookingService, hub *websocket.Hub) *Server {
	s := &Server{
		service: bookingService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/seats", s.handleGetSeats).Methods("GET")
	api.HandleFunc("/seats/select", s.handleSelectSeat).Methods("POST")
	api.HandleFunc("/seats/book", s.handleBookSeat).Methods("POST")
	api.HandleFunc("/seats/release", s.handleReleaseSeat).Methods("POST")
	api.HandleFunc("/seats/{id}", s.handleGetSeat).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Operational endpoints
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/stats", s.handleStats).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrSeatNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrMissingSeatID),
		errors.Is(err, engine.ErrMissingUserID):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrSeatHeld),
		errors.Is(err, engine.ErrSeatHeldBySelf),
		errors.Is(err, engine.ErrSeatBooked),
		errors.Is(err, engine.ErrSeatNotHeld),
		errors.Is(err, engine.ErrNotHolder):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Seat handlers

func (s *Server) handleGetSeats(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.VenueState(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get seats")
		return
	}
	respondJSON(w, http.StatusOK, state.Seats)
}

func (s *Server) handleGetSeat(w http.ResponseWriter, r *http.Request) {
	seatID := mux.Vars(r)["id"]

	seat, err := s.service.Seat(r.Context(), seatID)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, seat)
}

func (s *Server) handleSelectSeat(w http.ResponseWriter, r *http.Request) {
	s.handleSeatOp(w, r, s.service.SelectSeat, "Seat selected successfully")
}

func (s *Server) handleBookSeat(w http.ResponseWriter, r *http.Request) {
	s.handleSeatOp(w, r, s.service.BookSeat, "Seat booked successfully")
}

func (s *Server) handleReleaseSeat(w http.ResponseWriter, r *http.Request) {
	s.handleSeatOp(w, r, s.service.ReleaseSeat, "Seat released successfully")
}

// seatOp is a booking-service seat operation (select, book or release).
type seatOp func(ctx context.Context, seatID, userID string) (*engine.Seat, error)

func (s *Server) handleSeatOp(w http.ResponseWriter, r *http.Request, op seatOp, message string) {

	var req protocol.SeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if req.SeatID == "" || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "seat_id and user_id are required")
		return
	}

	seat, err := op(r.Context(), req.SeatID, req.UserID)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"seat":    seat,
	})
}

// Operational handlers

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "concert-booking",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.hub.Stats())
}
