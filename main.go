package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"screenpay/pkg/clients"
	"screenpay/pkg/ocr"
	"screenpay/pkg/pending"
	"screenpay/pkg/realtime"
	"screenpay/pkg/screen"
	"screenpay/pkg/slip"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	cfg = loadConfig()
	jwtSecret = []byte(cfg.JWTSecret)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create upload directory")
	}

	adminClient = clients.NewAdmin(cfg.AdminBaseURL, cfg.ClientTimeout)
	otpClient = clients.NewOTP(cfg.OTPBaseURL, cfg.OTPAPIKey, cfg.OTPSecretKey, cfg.OTPProjectKey, cfg.ClientTimeout)
	statsClient := clients.NewStats(cfg.StatsURL, cfg.ClientTimeout)

	ocrReader = ocr.NewTesseract()
	verifier = slip.NewService(ocrReader, statsClient, cfg.OCRTimeout)
	store = pending.NewStore(cfg.PendingTTL, adminClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, cfg.SweepInterval)

	hub = realtime.NewHub()
	screenCfg = screen.NewHolder(cfg.ScreenConfigPath, hub.Broadcast)
	if err := screenCfg.Watch(ctx); err != nil {
		log.WithError(err).Warn("screen config watcher not started")
	}

	r := gin.Default()
	setupRoutes(r)

	log.WithField("port", cfg.Port).Info("screen backend listening")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
