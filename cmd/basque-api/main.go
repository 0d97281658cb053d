package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Matransformation/decouvrir-le-pays-basque/internal/auth"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/config"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/database"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/interactions"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/logging"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/places"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/profiles"
	"github.com/Matransformation/decouvrir-le-pays-basque/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "basque-api",
		Short: "Découvrir le Pays Basque interaction backend",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("session-cookie-name", defaults.GetString("session.cookie_name"), "Session cookie name")
	cmd.PersistentFlags().Int("token-ttl-hours", defaults.GetInt("auth.token_ttl_hours"), "Account token TTL in hours")
	cmd.PersistentFlags().String("signing-secret", "", "Account token signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "session.cookie_name", "session-cookie-name")
	bindFlag(cmd, "auth.token_ttl_hours", "token-ttl-hours")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	placeService, err := places.NewService(places.ServiceConfig{Database: db, Logger: logger})
	if err != nil {
		return err
	}
	interactionService, err := interactions.NewService(interactions.ServiceConfig{
		Database: db,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	profileService, err := profiles.NewService(profiles.ServiceConfig{
		Database:     db,
		Interactions: interactionService,
		Clock:        time.Now,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	credentialStore, err := auth.NewCredentialStore(auth.CredentialStoreConfig{Database: db, Logger: logger})
	if err != nil {
		return err
	}
	tokenIssuer := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "basque-auth",
		Audience:      "basque-api",
		TokenTTL:      appConfig.TokenTTL,
	})

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Places:       placeService,
		Interactions: interactionService,
		Profiles:     profileService,
		Credentials:  credentialStore,
		Tokens:       tokenIssuer,
		CookieName:   appConfig.SessionCookieName,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
