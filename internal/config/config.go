package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	PlatformDiscord = "discord"
	PlatformIRC     = "irc"
)

type Configuration struct {
	Bot        *BotConfig
	Discord    *DiscordConfig
	Server     *ServerConfig
	Connection *ConnectionConfig
	Metrics    *MetricsConfig
}

type BotConfig struct {
	Platform  string
	Prefix    string
	StorePath string
	Verbose   bool
	Timeout   time.Duration
}

type DiscordConfig struct {
	Token string
}

type ServerConfig struct {
	Nick        string
	Server      string
	Port        int
	Channel     string
	SSL         bool
	TLSInsecure bool
	SASLNick    string
	SASLPass    string
	ChunkMax    int
}

type ConnectionConfig struct {
	MaxReconnects    int
	ReconnectBackoff time.Duration
}

type MetricsConfig struct {
	Addr string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		// Handle slices by joining with comma
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

func GetFlags() []cli.Flag {
	// Pre-parse config path
	configPath := getConfigPath(os.Args)
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, &configData); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
			}
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

	// Helper to create sources: EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("HELPBOT_CONFIG")},

		// Bot Configuration
		&cli.StringFlag{Name: "platform", Aliases: []string{"P"}, Value: PlatformDiscord, Usage: "chat platform to connect to (discord or irc)", Sources: src("platform", "HELPBOT_PLATFORM")},
		&cli.StringFlag{Name: "prefix", Value: ".", Usage: "character that marks a message as a command", Sources: src("prefix", "HELPBOT_PREFIX")},
		&cli.StringFlag{Name: "store", Aliases: []string{"d"}, Value: "./db.json", Usage: "path of the json file holding admins and help topics", Sources: src("store", "HELPBOT_STORE")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging", Sources: src("verbose", "HELPBOT_VERBOSE")},
		&cli.DurationFlag{Name: "timeout", Aliases: []string{"t"}, Value: time.Second * 30, Usage: "time allowed for handling a single message", Sources: src("timeout", "HELPBOT_TIMEOUT")},

		// Discord Client Configuration
		&cli.StringFlag{Name: "discordtoken", Usage: "discord bot token", Sources: src("discordtoken", "HELPBOT_DISCORDTOKEN")},

		// IRC Client Configuration
		&cli.StringFlag{Name: "nick", Aliases: []string{"n"}, Value: "helpbot", Usage: "bot's nickname on the irc server", Sources: src("nick", "HELPBOT_NICK")},
		&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: "localhost", Usage: "irc server address", Sources: src("server", "HELPBOT_SERVER")},
		&cli.BoolFlag{Name: "tls", Aliases: []string{"e"}, Usage: "enable TLS for the IRC connection", Sources: src("tls", "HELPBOT_TLS")},
		&cli.BoolFlag{Name: "tlsinsecure", Usage: "skip TLS certificate verification", Sources: src("tlsinsecure", "HELPBOT_TLSINSECURE")},
		&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 6667, Usage: "irc server port", Sources: src("port", "HELPBOT_PORT")},
		&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "irc channel to join", Sources: src("channel", "HELPBOT_CHANNEL")},
		&cli.StringFlag{Name: "saslnick", Usage: "nick used for SASL", Sources: src("saslnick", "HELPBOT_SASLNICK")},
		&cli.StringFlag{Name: "saslpass", Usage: "password for SASL plain", Sources: src("saslpass", "HELPBOT_SASLPASS")},
		&cli.IntFlag{Name: "chunkmax", Aliases: []string{"m"}, Value: 350, Usage: "maximum number of characters to send as a single irc message", Sources: src("chunkmax", "HELPBOT_CHUNKMAX")},

		// Reconnects
		&cli.IntFlag{Name: "maxreconnects", Value: 10, Usage: "consecutive failed connection attempts before giving up", Sources: src("maxreconnects", "HELPBOT_MAXRECONNECTS")},
		&cli.DurationFlag{Name: "reconnectbackoff", Value: time.Minute, Usage: "upper bound for the wait between reconnect attempts", Sources: src("reconnectbackoff", "HELPBOT_RECONNECTBACKOFF")},

		// Metrics
		&cli.StringFlag{Name: "metricsaddr", Usage: "listen address for the prometheus /metrics endpoint (disabled when empty)", Sources: src("metricsaddr", "HELPBOT_METRICSADDR")},
	}
}

func getConfigPath(args []string) string {
	// Check env first
	if v := os.Getenv("HELPBOT_CONFIG"); v != "" {
		return v
	}
	// Check args
	for i, arg := range args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func maskSecret(s string) string {
	if len(s) > 3 {
		return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
	}
	return s
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("platform: %s\n", c.Bot.Platform)
	fmt.Printf("prefix: %s\n", c.Bot.Prefix)
	fmt.Printf("store: %s\n", c.Bot.StorePath)
	fmt.Printf("verbose: %t\n", c.Bot.Verbose)
	fmt.Printf("timeout: %s\n", c.Bot.Timeout)
	fmt.Printf("discordtoken: %s\n", maskSecret(c.Discord.Token))
	fmt.Printf("nick: %s\n", c.Server.Nick)
	fmt.Printf("server: %s\n", c.Server.Server)
	fmt.Printf("port: %d\n", c.Server.Port)
	fmt.Printf("channel: %s\n", c.Server.Channel)
	fmt.Printf("tls: %t\n", c.Server.SSL)
	fmt.Printf("tlsinsecure: %t\n", c.Server.TLSInsecure)
	fmt.Printf("saslnick: %s\n", c.Server.SASLNick)
	fmt.Printf("saslpass: %s\n", maskSecret(c.Server.SASLPass))
	fmt.Printf("chunkmax: %d\n", c.Server.ChunkMax)
	fmt.Printf("maxreconnects: %d\n", c.Connection.MaxReconnects)
	fmt.Printf("reconnectbackoff: %s\n", c.Connection.ReconnectBackoff)
	fmt.Printf("metricsaddr: %s\n", c.Metrics.Addr)
}

// Validate reports configuration problems that make startup pointless.
func (c *Configuration) Validate() error {
	var errs []error
	switch c.Bot.Platform {
	case PlatformDiscord:
		if c.Discord.Token == "" {
			errs = append(errs, errors.New("discordtoken is required for the discord platform"))
		}
	case PlatformIRC:
		if c.Server.Server == "" {
			errs = append(errs, errors.New("server is required for the irc platform"))
		}
		if c.Server.Channel == "" {
			errs = append(errs, errors.New("channel is required for the irc platform"))
		}
		if c.Server.ChunkMax <= 0 {
			errs = append(errs, errors.New("chunkmax must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown platform %q (want %s or %s)", c.Bot.Platform, PlatformDiscord, PlatformIRC))
	}
	if strings.TrimSpace(c.Bot.Prefix) == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if c.Bot.StorePath == "" {
		errs = append(errs, errors.New("store path must not be empty"))
	}
	if c.Connection.MaxReconnects <= 0 {
		errs = append(errs, errors.New("maxreconnects must be positive"))
	}
	return errors.Join(errs...)
}

func NewConfiguration(c *cli.Command) *Configuration {
	if c.IsSet("config") {
		zap.S().Infow("Using config file", "path", c.String("config"))
	}

	config := &Configuration{
		Bot: &BotConfig{
			Platform:  strings.ToLower(c.String("platform")),
			Prefix:    c.String("prefix"),
			StorePath: c.String("store"),
			Verbose:   c.Bool("verbose"),
			Timeout:   c.Duration("timeout"),
		},
		Discord: &DiscordConfig{
			Token: c.String("discordtoken"),
		},
		Server: &ServerConfig{
			Nick:        c.String("nick"),
			Server:      c.String("server"),
			Port:        c.Int("port"),
			Channel:     c.String("channel"),
			SSL:         c.Bool("tls"),
			TLSInsecure: c.Bool("tlsinsecure"),
			SASLNick:    c.String("saslnick"),
			SASLPass:    c.String("saslpass"),
			ChunkMax:    c.Int("chunkmax"),
		},
		Connection: &ConnectionConfig{
			MaxReconnects:    c.Int("maxreconnects"),
			ReconnectBackoff: c.Duration("reconnectbackoff"),
		},
		Metrics: &MetricsConfig{
			Addr: c.String("metricsaddr"),
		},
	}

	return config
}
