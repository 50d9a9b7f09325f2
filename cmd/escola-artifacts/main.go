package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/config"
	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/export"
	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/qrcode"
	"github.com/diillson/escola-artifacts-go/internal/adapter/driven/storage"
	"github.com/diillson/escola-artifacts-go/internal/adapter/driving/cli"
	"github.com/diillson/escola-artifacts-go/internal/application/usecase"
	"github.com/diillson/escola-artifacts-go/internal/domain/entity"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/diillson/escola-artifacts-go/pkg/console"
	"github.com/diillson/escola-artifacts-go/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializa os repositórios que não dependem da configuração
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, configRepo, newUseCaseFactory(configRepo, consoleImpl))

	// Executa o aplicativo
	if err := app.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newUseCaseFactory liga os adapters driven de acordo com a configuração efetiva.
func newUseCaseFactory(configRepo repository.ConfigRepository, consoleImpl types.ConsoleInterface) cli.UseCaseFactory {
	return func(ctx context.Context, cfg types.Config) (*usecase.ArtifactUseCase, error) {
		locale, err := export.NewLocale(cfg.Locale)
		if err != nil {
			return nil, err
		}

		logoTimeout, err := time.ParseDuration(cfg.QR.LogoTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid qr.logo_timeout %q: %w", cfg.QR.LogoTimeout, err)
		}

		var fetcherOpts []qrcode.FetcherOption
		if cfg.QR.RemoteLogosOnly {
			fetcherOpts = append(fetcherOpts, qrcode.WithoutLocalFiles(), qrcode.WithPublicHostsOnly())
		}

		generator := qrcode.NewGenerator(
			qrcode.NewLogoFetcher(logoTimeout, fetcherOpts...),
			qrcode.WithDefaults(qrcode.Defaults{
				Width:           cfg.QR.Width,
				ErrorCorrection: entity.ErrorCorrectionLevel(cfg.QR.ErrorCorrection),
				Foreground:      cfg.QR.Foreground,
				Background:      cfg.QR.Background,
			}),
			qrcode.WithConcurrency(cfg.QR.BatchConcurrency),
		)
		exportRepo := export.NewExportRepository(export.WithLocale(locale))

		store, err := storage.New(ctx, cfg.Storage, cfg.Dir)
		if err != nil {
			return nil, err
		}

		return usecase.NewArtifactUseCase(generator, exportRepo, store, configRepo, consoleImpl), nil
	}
}
