package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/cli/config"
	httpctrl "github.com/mindmate-app/mindmate/pkg/controller/http"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	memorysvc "github.com/mindmate-app/mindmate/pkg/service/memory"
	"github.com/mindmate-app/mindmate/pkg/service/prompt"
	"github.com/mindmate-app/mindmate/pkg/usecase"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthUID string
	var appCfg config.App
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MINDMATE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run every request as the given user ID (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("MINDMATE_NO_AUTH"),
			Destination: &noAuthUID,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load app config")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Gemini client")
			}
			if llmClient == nil {
				logging.Default().Warn("Gemini not configured, chat endpoints will be disabled")
			}

			memSvc, err := memorysvc.New(repo.Memory(), llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize memory service")
			}

			uc := usecase.New(repo, llmClient, memSvc, prompt.New(appCfg.Name), appCfg.UseCaseOptions()...)

			var srvOpts []httpctrl.Option
			if noAuthUID != "" {
				logging.Default().Warn("Running in no-auth mode (development only)", "user_id", noAuthUID)
				srvOpts = append(srvOpts, httpctrl.WithNoAuth(types.UserID(noAuthUID)))
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, srvOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
