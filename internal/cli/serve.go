package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vellumhq/vellum/internal/auth"
	"github.com/vellumhq/vellum/internal/httpapi"
	"github.com/vellumhq/vellum/internal/mail"
	"github.com/vellumhq/vellum/internal/service"
	"github.com/vellumhq/vellum/internal/sqlite"
	"github.com/vellumhq/vellum/pkg/types"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the vellum API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	v, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("load config: %s", err))
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	store := sqlite.NewBackend()
	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: resolveDataDir(v),
	}
	if err := store.Attach(cfg); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("attach storage: %s", err))
	}
	defer store.Detach()

	tokens := auth.NewTokenService(v.GetString(cfgKeyJWTSecret), v.GetDuration(cfgKeyTokenTTL))
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     v.GetString(cfgKeySMTPHost),
		Port:     v.GetInt(cfgKeySMTPPort),
		Username: v.GetString(cfgKeySMTPUsername),
		Password: v.GetString(cfgKeySMTPPassword),
		From:     v.GetString(cfgKeySMTPFrom),
		FromName: v.GetString(cfgKeySMTPFromName),
	})

	users := service.NewUserService(store)
	server := httpapi.NewServer(httpapi.Deps{
		Collections: service.NewCollectionService(store),
		Posts:       service.NewPostService(store),
		Users:       users,
		Auth:        service.NewAuthService(users, tokens),
		Invites:     service.NewInviteService(users, sender, v.GetString(cfgKeyInviteURL)),
		Admin:       service.NewAdminService(store, users),
		Tokens:      tokens,
		Logger:      logger,
	})

	addr := v.GetString(cfgKeyListenAddr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Str("addr", addr).Msg("vellum API listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return exitError(cmd, exitSysError, fmt.Sprintf("serve: %s", err))
	}
	return nil
}
