// Package register parses register command flags and uploads the
// application command set.
package register

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	entrypoint "github.com/louisbranch/roster.space/internal/platform/cmd"
	"github.com/louisbranch/roster.space/internal/transport/discord"
)

// Config holds register command configuration.
type Config struct {
	AppID      string `env:"ROSTER_SPACE_APP_ID"`
	BotToken   string `env:"ROSTER_SPACE_BOT_TOKEN"`
	APIBaseURL string `env:"ROSTER_SPACE_API_BASE_URL"`

	// Guilds is a comma-separated guild id list for guild-scoped commands.
	Guilds string `env:"ROSTER_SPACE_GUILDS"`
	Global bool   `env:"ROSTER_SPACE_GLOBAL"`
	Clear  bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Guilds, "guilds", cfg.Guilds, "Comma-separated guild ids to register commands in")
	fs.BoolVar(&cfg.Global, "global", cfg.Global, "Register commands globally")
	fs.BoolVar(&cfg.Clear, "clear", false, "Remove all registered commands instead")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run uploads (or clears) the command set for every requested scope.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRegister, func(ctx context.Context) error {
		if cfg.AppID == "" || cfg.BotToken == "" {
			return errors.New("app id and bot token are required")
		}
		guilds := splitGuilds(cfg.Guilds)
		if !cfg.Global && len(guilds) == 0 {
			return errors.New("pass -global or -guilds with at least one id")
		}

		commands := discord.Commands()
		if cfg.Clear {
			commands = []discord.Command{}
		}

		var opts []discord.ClientOption
		if cfg.APIBaseURL != "" {
			opts = append(opts, discord.WithBaseURL(cfg.APIBaseURL))
		}
		client := discord.NewClient(cfg.BotToken, opts...)

		if cfg.Global {
			if err := client.RegisterCommands(ctx, cfg.AppID, "", commands); err != nil {
				return err
			}
			log.Printf("registered %d commands globally", len(commands))
		}
		for _, guild := range guilds {
			if err := client.RegisterCommands(ctx, cfg.AppID, guild, commands); err != nil {
				return err
			}
			log.Printf("registered %d commands in guild %s", len(commands), guild)
		}
		return nil
	})
}

func splitGuilds(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
