package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"incorporator/internal/app"
	"incorporator/internal/prompt"
)

var (
	cfgFile string
	console *prompt.Console
)

// Execute runs the root command. Interrupts cancel the running wizard, which
// saves progress before exiting.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console = prompt.NewConsole(os.Stdin, os.Stdout)
	root := rootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "incorporator",
		Short:         "Guided company formation wizard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default <home>/config.yaml)")
	pf.String("home", "", "data directory (default ~/.incorporator)")
	pf.StringP("passphrase", "p", "", "passphrase protecting saved sessions")
	pf.String("name-service", "", "name availability service URL")
	pf.String("log-level", "", "debug log level (DEBUG, INFO, WARN, ERROR)")
	_ = viper.BindPFlag("home", pf.Lookup("home"))
	_ = viper.BindPFlag("passphrase", pf.Lookup("passphrase"))
	_ = viper.BindPFlag("remote.base_url", pf.Lookup("name-service"))
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))

	root.AddCommand(newCmd(), resumeCmd(), sessionsCmd(), deleteCmd())
	return root
}

func initConfig() error {
	app.SetDefaults(viper.GetViper())

	viper.SetEnvPrefix(app.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(viper.GetString("home"))
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// openWire loads configuration and builds the dependency graph. When
// needPassphrase is set and none was configured, it is read from the
// terminal; confirm asks for it twice.
func openWire(needPassphrase, confirm bool) (*app.Wire, error) {
	cfg, err := app.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	cfg.Home = expandHome(cfg.Home)

	pass := viper.GetString("passphrase")
	if needPassphrase && pass == "" {
		if pass, err = readPassphrase(confirm); err != nil {
			return nil, err
		}
	}
	return app.NewWire(cfg, pass)
}

func readPassphrase(confirm bool) (string, error) {
	ctx := context.Background()
	pass, err := console.Secret(ctx, "Passphrase")
	if err != nil {
		return "", err
	}
	if pass == "" {
		return "", errors.New("passphrase required (-p or INCORPORATOR_PASSPHRASE)")
	}
	if confirm {
		again, err := console.Secret(ctx, "Repeat passphrase")
		if err != nil {
			return "", err
		}
		if again != pass {
			return "", errors.New("passphrases do not match")
		}
	}
	return pass, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if dir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(dir, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
