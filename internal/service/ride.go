package service

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taxiye/internal/domain"
	"taxiye/internal/observability"
	"taxiye/internal/repository"
	"taxiye/internal/ridesim"
	"taxiye/internal/ws"
)

// ProgressPublisher pushes ride progress frames to a rider's client.
type ProgressPublisher interface {
	Publish(riderID string, msg ws.ProgressMessage)
}

// fareSchedule is the flat fare model for the simulated rides: a base
// amount plus a per-ETA-minute rate, in birr.
var fareSchedule = map[domain.VehicleType]struct {
	Base      float64
	PerMinute float64
}{
	domain.VehicleTypeMini:  {Base: 80, PerMinute: 8},
	domain.VehicleTypeSedan: {Base: 120, PerMinute: 10},
	domain.VehicleTypeVan:   {Base: 150, PerMinute: 14},
}

// driverRoster supplies display names for simulated rides.
var driverRoster = []string{"Abebe", "Hana", "Samuel", "Tigist", "Dawit", "Selam"}

// riderSession pairs a simulator with the booking details needed when the
// ride completes.
type riderSession struct {
	sim           *ridesim.Simulator
	vehicleType   domain.VehicleType
	paymentMethod domain.PaymentMethod
	couponCode    string
	etaMinutes    int
}

// RideService owns the live ride session per rider and turns simulator
// events into trips, wallet debits and notifications.
type RideService struct {
	cfg           ridesim.Config
	trips         *TripService
	wallet        *WalletService
	coupons       *CouponService
	notifications *NotificationService
	publisher     ProgressPublisher
	logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*riderSession // keyed by rider ID
}

// NewRideService creates a new RideService. publisher, coupons and wallet
// may be nil.
func NewRideService(
	cfg ridesim.Config,
	trips *TripService,
	wallet *WalletService,
	coupons *CouponService,
	notifications *NotificationService,
	publisher ProgressPublisher,
	logger *slog.Logger,
) *RideService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RideService{
		cfg:           cfg,
		trips:         trips,
		wallet:        wallet,
		coupons:       coupons,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		sessions:      make(map[string]*riderSession),
	}
}

// StartRideRequest contains the parameters for requesting a simulated ride.
type StartRideRequest struct {
	RiderID       string
	Pickup        string
	Dropoff       string
	VehicleType   string
	PaymentMethod string
	CouponCode    string
}

// Start begins a simulated ride for the rider. A live session for the same
// rider is cancelled first. The coupon, when given, is validated up front
// and redeemed at completion.
func (s *RideService) Start(ctx context.Context, req StartRideRequest) (ridesim.Snapshot, error) {
	if req.RiderID == "" {
		return ridesim.Snapshot{}, ErrInvalidRiderID
	}
	if !ridesim.CanRequest(req.Pickup, req.Dropoff) {
		if strings.TrimSpace(req.Pickup) == "" {
			return ridesim.Snapshot{}, ridesim.ErrMissingPickup
		}
		return ridesim.Snapshot{}, ridesim.ErrMissingDropoff
	}
	if !domain.ValidVehicleType(req.VehicleType) {
		return ridesim.Snapshot{}, ErrInvalidVehicleType
	}
	method, err := ValidatePaymentMethod(req.PaymentMethod)
	if err != nil {
		return ridesim.Snapshot{}, err
	}
	if req.CouponCode != "" && s.coupons != nil {
		if _, err := s.coupons.Lookup(ctx, req.CouponCode); err != nil {
			return ridesim.Snapshot{}, err
		}
	}

	session := &riderSession{
		vehicleType:   domain.VehicleType(req.VehicleType),
		paymentMethod: method,
		couponCode:    req.CouponCode,
		etaMinutes:    3 + rand.Intn(5),
	}
	riderID := req.RiderID
	session.sim = ridesim.New(s.cfg, func(e ridesim.Event) {
		s.handleEvent(riderID, session, e)
	})

	s.mu.Lock()
	prev := s.sessions[riderID]
	s.sessions[riderID] = session
	s.mu.Unlock()
	if prev != nil {
		prev.sim.Cancel()
	}

	info := ridesim.Info{
		Pickup:      strings.TrimSpace(req.Pickup),
		Dropoff:     strings.TrimSpace(req.Dropoff),
		VehicleType: req.VehicleType,
		DriverName:  driverRoster[rand.Intn(len(driverRoster))],
		ETAMinutes:  session.etaMinutes,
	}
	if err := session.sim.Start(info); err != nil {
		return ridesim.Snapshot{}, err
	}

	observability.RidesStartedTotal.Inc()
	return session.sim.Snapshot(), nil
}

// Status returns the rider's active session snapshot.
func (s *RideService) Status(ctx context.Context, riderID string) (ridesim.Snapshot, error) {
	s.mu.Lock()
	session := s.sessions[riderID]
	s.mu.Unlock()
	if session == nil {
		return ridesim.Snapshot{}, ErrNoActiveRide
	}
	return session.sim.Snapshot(), nil
}

// Cancel aborts the rider's active ride without recording a trip.
func (s *RideService) Cancel(ctx context.Context, riderID string) error {
	s.mu.Lock()
	session := s.sessions[riderID]
	s.mu.Unlock()
	if session == nil {
		return ErrNoActiveRide
	}

	session.sim.Cancel()
	observability.RidesCancelledTotal.Inc()
	return nil
}

// handleEvent reacts to simulator state changes. It runs on the
// simulator's timer goroutine, so persistence uses a background context:
// the originating HTTP request is long gone.
func (s *RideService) handleEvent(riderID string, session *riderSession, e ridesim.Event) {
	if s.publisher != nil {
		s.publisher.Publish(riderID, ws.ProgressMessage{
			Event:       string(e.Type),
			Status:      string(e.Snapshot.Status),
			Progress:    e.Snapshot.Progress,
			Pickup:      e.Snapshot.Info.Pickup,
			Dropoff:     e.Snapshot.Info.Dropoff,
			VehicleType: e.Snapshot.Info.VehicleType,
			DriverName:  e.Snapshot.Info.DriverName,
		})
	}

	switch e.Type {
	case ridesim.EventCompleted:
		s.completeRide(riderID, session, e.Snapshot)
	case ridesim.EventReset, ridesim.EventCancelled:
		s.dropSession(riderID, session)
	}
}

// completeRide records the trip, settles payment and notifies the rider.
func (s *RideService) completeRide(riderID string, session *riderSession, snap ridesim.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	observability.RidesCompletedTotal.Inc()

	schedule := fareSchedule[session.vehicleType]
	fare := schedule.Base + schedule.PerMinute*float64(session.etaMinutes)

	var discount float64
	if session.couponCode != "" && s.coupons != nil {
		discounted, deducted, err := s.coupons.Redeem(ctx, session.couponCode, fare)
		if err != nil {
			s.logger.Warn("coupon redemption failed at completion", "code", session.couponCode, "error", err)
		} else {
			fare = discounted
			discount = deducted
		}
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		RiderID:       riderID,
		Pickup:        snap.Info.Pickup,
		Dropoff:       snap.Info.Dropoff,
		VehicleType:   session.vehicleType,
		DriverName:    snap.Info.DriverName,
		Fare:          fare,
		Discount:      discount,
		CouponCode:    session.couponCode,
		PaymentMethod: session.paymentMethod,
		StartedAt:     snap.StartedAt,
		CompletedAt:   snap.CompletedAt,
	}

	if session.paymentMethod == domain.PaymentMethodWallet && s.wallet != nil {
		if err := s.wallet.DebitForTrip(ctx, riderID, trip.ID, fare); err != nil {
			if err == repository.ErrInsufficientFunds {
				// Fall back to cash rather than stranding the rider.
				trip.PaymentMethod = domain.PaymentMethodCash
				s.logger.Warn("wallet balance too low, falling back to cash", "rider_id", riderID)
			} else {
				s.logger.Error("wallet debit failed", "rider_id", riderID, "error", err)
			}
		}
	}

	if s.trips != nil {
		if err := s.trips.Record(ctx, trip); err != nil {
			s.logger.Error("trip record failed", "rider_id", riderID, "error", err)
		}
	}
	if s.notifications != nil {
		_ = s.notifications.NotifyRideCompleted(ctx, trip)
	}
}

// dropSession forgets the rider's session if it is still the registered
// one. A newer Start may already have replaced it.
func (s *RideService) dropSession(riderID string, session *riderSession) {
	s.mu.Lock()
	if s.sessions[riderID] == session {
		delete(s.sessions, riderID)
	}
	s.mu.Unlock()
}
