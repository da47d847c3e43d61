package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trainbook/internal/domain"
)

// listWindow is how far back the booking list reaches: bookings that
// started up to two days ago are still shown.
const listWindow = 48 * time.Hour

const mailSignature = "\n\nCheers,\nTraining Booking System"

// Config carries the identities the conflict rules are written against.
// They are resolved from the environment at startup, never inlined.
type Config struct {
	// RestrictedRoomID bookings by non-privileged actors notify
	// ManagerUserID.
	RestrictedRoomID int64
	ManagerUserID    int64

	// ReservedUserID owns bookings that are never auto-evicted.
	ReservedUserID int64

	// SuperUsername is the privileged actor whose override stays scoped
	// to the requested room.
	SuperUsername string
}

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	users    UserRepository
	mail     MailSender
	events   EventSink
	cfg      Config
}

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	users UserRepository,
	mail MailSender,
	events EventSink,
	cfg Config,
) *Service {
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		mail:     mail,
		events:   events,
		cfg:      cfg,
	}
}

// ResolveActor turns request credentials into a user. A positive
// sessionUserID wins; otherwise externalID is matched against the users'
// display names. There is no fallback: an unresolvable actor is
// ErrUnauthorized and nothing else happens.
func (s *Service) ResolveActor(ctx context.Context, sessionUserID int64, externalID string) (*domain.User, error) {
	if sessionUserID > 0 {
		u, err := s.users.GetByID(ctx, sessionUserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, err
		}
		return u, nil
	}

	if externalID == "" {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByDisplayName(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// CreateBooking persists the intent for the given actor, applying the
// conflict rules first:
//
//   - a privileged actor evicts every overlapping booking: scoped to the
//     requested room for the super user, across all rooms (sparing the
//     reserved user's bookings) for any other privileged actor. Evictions
//     and the insert commit as one transaction; each evicted owner is then
//     mailed once.
//   - a non-privileged actor booking the restricted room triggers a notice
//     to the manager; nothing is evicted.
//
// All mail goes out after the store has committed and is best-effort.
func (s *Service) CreateBooking(ctx context.Context, actor *domain.User, in Intent) (*domain.Booking, error) {
	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}

	b := &domain.Booking{
		RoomID:    in.RoomID,
		UserID:    actor.ID,
		StartTime: in.Start,
		EndTime:   in.End,
		Scenario:  in.Scenario,
		Pax:       in.Pax,
	}

	if actor.Privileged {
		roomID, excludeOwner := s.evictionScope(actor, in)
		evicted, err := s.bookings.EvictAndCreate(ctx, b, roomID, excludeOwner)
		if err != nil {
			return nil, mapStoreError(err)
		}

		s.notifyEvictedOwners(ctx, room, evicted, in.Start, in.End)
		if s.events != nil {
			s.events.BookingsEvicted(evicted)
			s.events.BookingCreated(*b)
		}
		return b, nil
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, mapStoreError(err)
	}

	if in.RoomID == s.cfg.RestrictedRoomID {
		s.notifyManager(ctx, actor, room, in)
	}
	if s.events != nil {
		s.events.BookingCreated(*b)
	}
	return b, nil
}

// evictionScope translates the actor's override class into the overlap
// scope the store evicts under: the super user stays inside the requested
// room, every other privileged actor sweeps all rooms but spares the
// reserved user's bookings.
func (s *Service) evictionScope(actor *domain.User, in Intent) (roomID *int64, excludeOwner int64) {
	if actor.Username == s.cfg.SuperUsername {
		id := in.RoomID
		return &id, 0
	}
	return nil, s.cfg.ReservedUserID
}

// ListBookings returns the actor's bookings starting inside the trailing
// window, ascending by start time.
func (s *Service) ListBookings(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	from := time.Now().Add(-listWindow)
	return s.bookings.ListByOwnerFrom(ctx, actor.ID, from)
}

// CancelBooking deletes the booking if the actor owns it. A non-owned or
// unknown id is a silent no-op: ownership sits in the delete predicate and
// the caller is told success either way.
func (s *Service) CancelBooking(ctx context.Context, actor *domain.User, id int64) error {
	deleted, err := s.bookings.DeleteOwned(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if deleted > 0 && s.events != nil {
		s.events.BookingCancelled(id, actor.ID)
	}
	return nil
}

// notifyEvictedOwners mails each distinct owner of an evicted booking
// exactly once, no matter how many of their bookings fell in the window.
func (s *Service) notifyEvictedOwners(ctx context.Context, room *domain.Room, evicted []domain.Booking, start, end time.Time) {
	if s.mail == nil || len(evicted) == 0 {
		return
	}

	owners := make(map[int64]bool, len(evicted))
	for _, b := range evicted {
		owners[b.UserID] = true
	}

	subject := "Bookings have been cancelled"
	body := fmt.Sprintf(
		"Hello,\n\nThe owner of %s has blocked the room from %s to %s. All bookings within this period have been cancelled. Sorry for the inconvenience.%s",
		room.Name,
		start.Format("2006-01-02 15:04"),
		end.Format("2006-01-02 15:04"),
		mailSignature,
	)

	for ownerID := range owners {
		s.mailUser(ctx, ownerID, subject, body)
	}
}

// notifyManager tells the designated manager that a non-privileged actor
// booked the restricted room. Informational only.
func (s *Service) notifyManager(ctx context.Context, actor *domain.User, room *domain.Room, in Intent) {
	if s.mail == nil {
		return
	}

	date := in.Start.Format("2006-01-02")
	subject := fmt.Sprintf("%s booking has been made on %s", room.Name, date)
	body := fmt.Sprintf(
		"Hello,\n\n%s has booked %s scenario %s on %s.%s",
		strings.ToUpper(actor.Username),
		room.Name,
		in.Scenario,
		date,
		mailSignature,
	)

	s.mailUser(ctx, s.cfg.ManagerUserID, subject, body)
}

func (s *Service) mailUser(ctx context.Context, userID int64, subject, body string) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("booking: notification lookup for user %d failed: %v", userID, err)
		return
	}
	if u.Email == "" {
		return
	}
	if err := s.mail.Send(ctx, []string{u.Email}, subject, body); err != nil {
		log.Printf("booking: notification to user %d failed: %v", userID, err)
	}
}

// mapStoreError translates Postgres constraint violations (the production
// schema carries an exclusion constraint on overlapping windows) into the
// module's conflict sentinel.
func mapStoreError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" || pgErr.Code == "23P01" {
			return ErrConflict
		}
	}
	return err
}
