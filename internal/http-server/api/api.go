package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"clubconnect/entity"
	"clubconnect/internal/config"
	"clubconnect/internal/http-server/handlers/admin"
	"clubconnect/internal/http-server/handlers/auth"
	"clubconnect/internal/http-server/handlers/clubs"
	"clubconnect/internal/http-server/handlers/clubselection"
	"clubconnect/internal/http-server/handlers/errors"
	"clubconnect/internal/http-server/handlers/events"
	"clubconnect/internal/http-server/handlers/profile"
	"clubconnect/internal/http-server/handlers/signup"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"clubconnect/internal/http-server/middleware/authenticate"
	"clubconnect/internal/http-server/middleware/timeout"
	"clubconnect/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	auth.Core
	signup.Core
	clubselection.Core
	events.Core
	clubs.Core
	profile.Core
	admin.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(10))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	if len(conf.App.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   conf.App.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(rootApi chi.Router) {
		rootApi.Post("/login", auth.Login(log, handler))

		rootApi.Route("/signup", func(su chi.Router) {
			su.Post("/send-otp", signup.SendOtp(log, handler))
			su.Post("/resend-otp", signup.SendOtp(log, handler))
			su.Post("/send-mobile-otp", signup.SendMobileOtp(log, handler))
			su.Post("/verify", signup.Verify(log, handler))
			su.Post("/check-exists", signup.CheckExists(log, handler))

			su.Group(func(gated chi.Router) {
				gated.Use(authenticate.New(log, handler))
				gated.Use(authenticate.RequireRole(log, entity.RoleAdmin))
				gated.Get("/pending", signup.Pending(log, handler))
				gated.Get("/approve/{id}", signup.Approve(log, handler))
				gated.Get("/reject/{id}", signup.Reject(log, handler))
			})
		})

		rootApi.Route("/forgot-password", func(fp chi.Router) {
			fp.Post("/", auth.ForgotPassword(log, handler))
			fp.Post("/verify-otp", auth.VerifyResetOtp(log, handler))
			fp.Post("/reset", auth.ResetPassword(log, handler))
		})

		rootApi.Route("/clubs", func(cl chi.Router) {
			cl.Get("/", clubs.List(log, handler))
			cl.Get("/{name}", clubs.Get(log, handler))

			cl.Group(func(gated chi.Router) {
				gated.Use(authenticate.New(log, handler))
				gated.With(authenticate.RequireRole(log, entity.RoleAdmin)).
					Post("/init", clubs.Init(log, handler))
				gated.With(authenticate.RequireRole(log, entity.RoleAdmin, entity.RoleLead)).
					Post("/update", clubs.Update(log, handler))
			})
		})

		rootApi.Route("/club-selection", func(cs chi.Router) {
			cs.Use(authenticate.New(log, handler))
			cs.Post("/select-clubs", clubselection.Select(log, handler))
			cs.Get("/approve/{token}/{approved}", clubselection.Approve(log, handler))
			cs.Get("/selected-clubs/{email}/{role}", clubselection.SelectedClubs(log, handler))
		})

		rootApi.Route("/events", func(ev chi.Router) {
			ev.Get("/", events.All(log, handler))
			ev.Get("/upcoming", events.Upcoming(log, handler))
			ev.Get("/past", events.Past(log, handler))
			ev.Get("/club/{club}", events.ByClub(log, handler))
			ev.Get("/{id}", events.Get(log, handler))

			ev.Group(func(gated chi.Router) {
				gated.Use(authenticate.New(log, handler))
				gated.Post("/register/{eventId}", events.Register(log, handler))
				gated.Post("/unregister/{eventId}", events.Unregister(log, handler))
				gated.With(authenticate.RequireRole(log, entity.RoleAdmin, entity.RoleLead)).
					Post("/add", events.Add(log, handler))
				gated.With(authenticate.RequireRole(log, entity.RoleAdmin, entity.RoleLead)).
					Post("/mark-participation/{eventId}", events.MarkParticipation(log, handler))
			})
		})

		rootApi.Route("/profile", func(pr chi.Router) {
			pr.Use(authenticate.New(log, handler))
			pr.Get("/{role}/{email}", profile.Get(log, handler))
			pr.Put("/update-profile", profile.Update(log, handler))
			pr.Put("/update-image/{email}", profile.UpdateImage(log, handler))
			pr.Post("/request-delete-otp", profile.DeleteOtp(log, handler))
			pr.Post("/delete-account", profile.Delete(log, handler))
		})

		rootApi.Route("/admin", func(ad chi.Router) {
			ad.Use(authenticate.New(log, handler))
			ad.Use(authenticate.RequireRole(log, entity.RoleAdmin))
			ad.Get("/all-members", admin.Members(log, handler))
			ad.Get("/all-leads", admin.Leads(log, handler))
			ad.Delete("/delete-user", admin.DeleteUser(log, handler))
		})

		rootApi.Route("/notifications", func(nt chi.Router) {
			nt.Use(authenticate.New(log, handler))
			nt.Use(authenticate.RequireRole(log, entity.RoleAdmin))
			nt.Get("/", admin.Notifications(log))
			nt.Put("/read/{id}", admin.MarkNotificationRead(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
