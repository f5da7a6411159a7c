package main

import (
	"flag"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"clubconnect/impl/auth"
	"clubconnect/impl/clubjoin"
	"clubconnect/impl/clubs"
	"clubconnect/impl/core"
	"clubconnect/impl/events"
	"clubconnect/impl/profile"
	"clubconnect/impl/signup"
	"clubconnect/internal/alert"
	"clubconnect/internal/config"
	"clubconnect/internal/database"
	"clubconnect/internal/ephemeral"
	"clubconnect/internal/http-server/api"
	"clubconnect/internal/mail"
	"clubconnect/internal/payments"
	"clubconnect/internal/sms"
	"clubconnect/lib/logger"
	"clubconnect/lib/sl"
)

const logFileName = "clubconnect.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))

	if conf.Telegram.Enabled {
		bot, err := alert.New(conf.Telegram.ApiKey, conf.Telegram.ChatId, log)
		if err != nil {
			log.Error("telegram alerts disabled", sl.Err(err))
		} else {
			log = slog.New(logger.NewTelegramHandler(log.Handler(), bot, slog.LevelWarn))
		}
	}
	log.Info("starting clubconnect", slog.String("config", *configPath), slog.String("env", conf.Env))

	db := database.NewMongoClient(conf)

	var store ephemeral.Store
	if conf.Redis.Enabled {
		redisStore, err := ephemeral.NewRedisStore(conf)
		if err != nil {
			log.Error("redis unavailable, falling back to memory store", sl.Err(err))
			store = ephemeral.NewMemoryStore()
		} else {
			log.Info("using redis ephemeral store")
			store = redisStore
		}
	} else {
		store = ephemeral.NewMemoryStore()
	}

	// The memory store expires lazily on read; the cron reaper keeps
	// abandoned challenges from piling up between reads.
	reaper := cron.New()
	_, err := reaper.AddFunc(conf.App.SweepSchedule, func() {
		if removed := store.Sweep(); removed > 0 {
			log.Debug("ephemeral sweep", slog.Int("removed", removed))
		}
	})
	if err != nil {
		log.Error("invalid sweep schedule", slog.String("schedule", conf.App.SweepSchedule), sl.Err(err))
	} else {
		reaper.Start()
		defer reaper.Stop()
	}

	mailer := mail.NewSender(conf, log)
	smsClient := sms.NewClient(conf, log)

	var stripeClient *payments.StripeClient
	if conf.Stripe.APIKey != "" {
		stripeClient = payments.New(conf, log)
	}

	otpTTL := time.Duration(conf.App.OtpTTLMin) * time.Minute
	resetOtpTTL := time.Duration(conf.App.ResetOtpTTLMin) * time.Minute
	tokenTTL := time.Duration(conf.Auth.TokenTTLMin) * time.Minute
	approvalTTL := time.Duration(conf.App.ApprovalRetentionDays) * 24 * time.Hour

	authService := auth.New(db, store, mailer, conf.Auth.JwtSecret, tokenTTL, resetOtpTTL, log)
	signupService := signup.New(db, store, mailer, smsClient, conf.App.BaseUrl, otpTTL, log)
	clubjoinService := clubjoin.New(db, store, mailer, conf.App.BaseUrl, approvalTTL, log)
	clubsService := clubs.New(db, log)
	profileService := profile.New(db, store, mailer, otpTTL, log)

	var eventsService *events.Service
	if stripeClient != nil {
		eventsService = events.New(db, stripeClient, log)
	} else {
		eventsService = events.New(db, nil, log)
	}

	handler := core.New(authService, signupService, clubjoinService, eventsService, clubsService, profileService)

	if err := api.New(conf, log, handler); err != nil {
		log.Error("api server stopped", sl.Err(err))
	}
}
