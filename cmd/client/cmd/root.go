package cmd

import (
	"fmt"
	"os"

	"antaracc/cmd/client/cmd/appctx"
	"antaracc/internal/app/client"
	"antaracc/internal/app/client/config"
	"antaracc/internal/app/client/render"
	"antaracc/internal/utils/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile   string
	debug     bool
	format    string
	noColor   bool
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "antaracc",
	Short: "antaracc - клиент индекса токенов и соглашений Antara CC",
	Long: `antaracc запрашивает у сервера индекса токены, владельцев, балансы
и состояние соглашений, отправляет транзакции на проверку и индексацию.

Команды opret decode и tokentag address работают без сервера.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Флаги командной строки перекрывают конфигурацию
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}
	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	log := logger.WithLevel(cfg.Env, cfg.LogLevel)
	app := client.New(cfg, log)
	cmd.SetContext(appctx.With(cmd.Context(), app, render.New(cmd.OutOrStdout(), f)))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (по умолчанию ~/.antaracc/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "simple", "формат вывода: simple, table, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "отключить цвет")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера индекса (host:port)")
}
