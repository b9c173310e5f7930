// Package colosseum parses arena CLI flags and dispatches subcommands.
package colosseum

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/colosseum/internal/arena/service"
	"github.com/louisbranch/colosseum/internal/platform/config"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
	"github.com/louisbranch/colosseum/internal/storage/sqlite"
)

// Config holds arena CLI configuration.
type Config struct {
	DBPath   string `env:"COLOSSEUM_DB_PATH" envDefault:"colosseum.db"`
	MaxTurns int    `env:"COLOSSEUM_MAX_TURNS" envDefault:"100"`
	// Seed pins battle randomness for reproducible runs. Zero draws a
	// fresh cryptographic seed per battle.
	Seed int64 `env:"COLOSSEUM_SEED"`
}

// ParseConfig parses environment and flags into a Config, returning the
// remaining positional arguments (the subcommand and its operands).
func ParseConfig(fs *flag.FlagSet, args []string) (Config, []string, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, nil, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the arena database file")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "Turn cap before a battle is declared a draw")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Pin the battle randomness seed (0 = random)")
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// Run executes one subcommand. The store is only opened for commands that
// touch it, so asking for help never creates a database file.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("a command is required\n\n%s", usage)
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(out, usage)
		return nil
	case "fighter", "battle", "clean":
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	svc := service.NewArenaService(store, service.Options{
		MaxTurns: cfg.MaxTurns,
		Seed:     cfg.Seed,
	})

	switch args[0] {
	case "fighter":
		return runFighter(ctx, svc, args[1:], out)
	case "battle":
		return runBattle(ctx, svc, args[1:], out)
	default:
		return runClean(ctx, svc, out)
	}
}

// Describe renders an error for the CLI exit line, prefixed with its broad
// category so a validation mistake reads differently from a storage
// failure. Errors outside the arena taxonomy pass through unchanged.
func Describe(err error) string {
	kind := apperrors.GetKind(err)
	if kind == apperrors.KindInternal {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", kind, err)
}

const usage = `Usage: colosseum [flags] <command>

Commands:
  fighter create -file <path>   Add fighters from a JSON definition file
  fighter list                  List all fighter names
  fighter show <name>           Show detailed fighter information
  battle create [-run] <a> <b>  Create a battle, optionally run it now
  battle list                   List all battles
  battle watch <id>             Run a pending battle or replay a finished one
  clean                         Remove all battle records`
