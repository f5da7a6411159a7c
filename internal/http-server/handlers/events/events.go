package events

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"clubconnect/entity"
	"clubconnect/lib/api/cont"
	"clubconnect/lib/api/response"
	"clubconnect/lib/api/status"
	"clubconnect/lib/sl"
)

type Core interface {
	AddEvent(req *entity.AddEventRequest) (*entity.Event, error)
	Event(id string) (*entity.Event, error)
	AllEvents() ([]*entity.Event, error)
	UpcomingEvents() ([]*entity.Event, error)
	PastEvents() ([]*entity.Event, error)
	EventsByClub(club string) ([]*entity.Event, error)
	RegisterForEvent(eventId, email string) (paymentLink string, err error)
	UnregisterFromEvent(eventId, email string) error
	MarkParticipation(eventId, email, role string, participated bool) error
}

func logger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.events"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func bindError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("bind request", sl.Err(err))
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(fmt.Sprintf("Invalid request: %v", err)))
}

func serviceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, action string, err error) {
	log.Error(action, sl.Err(err))
	render.Status(r, status.Code(err))
	render.JSON(w, r, response.Error(status.Message(err)))
}

// Add creates an event. Leads may only create events for their own club;
// admins are unrestricted.
func Add(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		var req entity.AddEventRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		actor := cont.GetAccount(r.Context())
		if !actor.IsAdmin() && !(actor.IsLead() && actor.Club == req.Club) {
			l.Error("event create denied", sl.Secret("actor", actor.Email), slog.String("club", req.Club))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("You can only create events for your own club"))
			return
		}

		ev, err := handler.AddEvent(&req)
		if err != nil {
			serviceError(w, r, l, "add event", err)
			return
		}
		l.Info("event created", slog.String("event_id", ev.Id))

		render.JSON(w, r, response.Ok(ev))
	}
}

func All(log *slog.Logger, handler Core) http.HandlerFunc {
	return listHandler(log, func() ([]*entity.Event, error) { return handler.AllEvents() }, "list events")
}

func Upcoming(log *slog.Logger, handler Core) http.HandlerFunc {
	return listHandler(log, func() ([]*entity.Event, error) { return handler.UpcomingEvents() }, "list upcoming")
}

func Past(log *slog.Logger, handler Core) http.HandlerFunc {
	return listHandler(log, func() ([]*entity.Event, error) { return handler.PastEvents() }, "list past")
}

func listHandler(log *slog.Logger, list func() ([]*entity.Event, error), action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		events, err := list()
		if err != nil {
			serviceError(w, r, l, action, err)
			return
		}

		render.JSON(w, r, response.Ok(events))
	}
}

func ByClub(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		club := chi.URLParam(r, "club")
		events, err := handler.EventsByClub(club)
		if err != nil {
			serviceError(w, r, l, "list club events", err)
			return
		}

		render.JSON(w, r, response.Ok(events))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		id := chi.URLParam(r, "id")
		ev, err := handler.Event(id)
		if err != nil {
			serviceError(w, r, l, "get event", err)
			return
		}

		render.JSON(w, r, response.Ok(ev))
	}
}

// Register signs the email up for the event. Paid events include a checkout
// link in the response data.
func Register(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		eventId := chi.URLParam(r, "eventId")
		var req entity.EventRegistrationRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		l = l.With(slog.String("event_id", eventId), sl.Secret("email", req.Email))

		paymentLink, err := handler.RegisterForEvent(eventId, req.Email)
		if err != nil {
			serviceError(w, r, l, "register", err)
			return
		}
		l.Info("registered for event")

		data := map[string]string{"message": "Registered successfully"}
		if paymentLink != "" {
			data["payment_link"] = paymentLink
		}
		render.JSON(w, r, response.Ok(data))
	}
}

func Unregister(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		eventId := chi.URLParam(r, "eventId")
		var req entity.EventRegistrationRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		l = l.With(slog.String("event_id", eventId), sl.Secret("email", req.Email))

		if err := handler.UnregisterFromEvent(eventId, req.Email); err != nil {
			serviceError(w, r, l, "unregister", err)
			return
		}
		l.Info("unregistered from event")

		render.JSON(w, r, response.Ok("Unregistered successfully"))
	}
}

// MarkParticipation records or clears attendance; lead/admin only at the
// router.
func MarkParticipation(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logger(log, r)

		eventId := chi.URLParam(r, "eventId")
		var req entity.ParticipationRequest
		if err := render.Bind(r, &req); err != nil {
			bindError(w, r, l, err)
			return
		}
		l = l.With(slog.String("event_id", eventId), sl.Secret("email", req.Email))

		if err := handler.MarkParticipation(eventId, req.Email, req.Role, *req.Participated); err != nil {
			serviceError(w, r, l, "mark participation", err)
			return
		}
		l.Info("participation updated", slog.Bool("participated", *req.Participated))

		render.JSON(w, r, response.Ok("Participation updated"))
	}
}
