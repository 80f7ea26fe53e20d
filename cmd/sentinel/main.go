package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/milk9111/sentinel/game"
	"github.com/milk9111/sentinel/logging"
	"github.com/milk9111/sentinel/prefabs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Headless sentinel patrol simulation",
	Long: `sentinel loads a YAML scenario, builds the walkable grid from its floors
and obstacles, and runs behavior-tree sentinels that patrol, wait and chase
the player over A* paths.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(runCmd, pathCmd, gridCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./sentinel.yaml or $HOME/.sentinel.yaml)")
	flags.String("scenario", prefabs.ScenarioFile, "scenario file; bare names resolve against the prefab directory")
	flags.String("prefabs", prefabs.Dir, "prefab directory checked before the embedded defaults")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")

	for _, name := range []string{"scenario", "prefabs", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".sentinel")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
	prefabs.Dir = viper.GetString("prefabs")
}

func newLogger() (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  viper.GetString("log-level"),
		Format: logging.Format(viper.GetString("log-format")),
		Writer: os.Stderr,
	})
}

func loadScenario() (prefabs.ScenarioSpec, error) {
	name := viper.GetString("scenario")
	if _, err := os.Stat(name); err == nil {
		return prefabs.LoadSpecFile[prefabs.ScenarioSpec](name)
	}
	return prefabs.LoadSpec[prefabs.ScenarioSpec](name)
}

// newGame loads the configured scenario into a game.
func newGame(opts game.Options) (*game.Game, *slog.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	sc, err := loadScenario()
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger
	g, err := game.New(sc, opts)
	if err != nil {
		return nil, nil, err
	}
	return g, logger, nil
}
