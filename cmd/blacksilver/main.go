package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/break-dev/BlackSilver-sub000/internal/api"
	"github.com/break-dev/BlackSilver-sub000/internal/config"
	"github.com/break-dev/BlackSilver-sub000/internal/store"
	"github.com/break-dev/BlackSilver-sub000/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuracion: %w", err)
	}

	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("crear directorio de estado: %w", err)
	}

	// El log va a archivo: la pantalla alternativa de la terminal queda
	// reservada para la interfaz.
	logFile, err := os.OpenFile(filepath.Join(cfg.StateDir, "blacksilver.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("abrir log: %w", err)
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).With().Timestamp().Logger()

	sesion, err := store.NuevoSesionStore(cfg.StateDir)
	if err != nil {
		return err
	}
	menu, err := store.NuevoMenuStore(cfg.StateDir)
	if err != nil {
		return err
	}

	cliente := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout(), sesion.Token)

	logger.Info().
		Str("api", cfg.APIBaseURL).
		Bool("sesion_previa", !sesion.Expirada(time.Now())).
		Msg("iniciando cliente de terminal")

	app := tui.NewApp(cliente, sesion, menu, logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("interfaz: %w", err)
	}
	return nil
}
