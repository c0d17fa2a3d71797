package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	adminPass      string
	adminUser      string
	bind           string
	date           string
	db             string
	logFormat      string
	otlpAddr       string
	port           int
	prefix         string
	profile        bool
	serviceName    string
	sessionTimeout time.Duration
	submitDelay    time.Duration
	superPass      string
	superUser      string
	startTime      string
	title          string
	tlsCert        string
	tlsKey         string
	venue          string
	verbose        bool
	version        bool

	logger zerolog.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.adminUser == "" || c.adminPass == "" || c.superUser == "" || c.superPass == "" {
		return errors.New("admin and super-admin credentials must not be empty")
	}
	if c.adminUser == c.superUser && c.adminPass == c.superPass {
		return errors.New("admin and super-admin credentials must differ")
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	if c.submitDelay < 0 {
		return fmt.Errorf("invalid submit delay (must not be negative): %s", c.submitDelay)
	}
	switch c.logFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format (must be console or json): %q", c.logFormat)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) credentials() Credentials {
	return Credentials{
		Admin:      CredentialPair{User: c.adminUser, Pass: c.adminPass},
		SuperAdmin: CredentialPair{User: c.superUser, Pass: c.superPass},
	}
}

func (c *Config) party() PartyDetails {
	return PartyDetails{
		Title: c.title,
		Date:  c.date,
		Time:  c.startTime,
		Venue: c.venue,
	}
}

// initLogger builds the process logger. Verbose output is emitted at debug level.
func (c *Config) initLogger(out io.Writer) {
	if c.logFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: logDate}
	}

	level := zerolog.InfoLevel
	if c.verbose {
		level = zerolog.DebugLevel
	}

	c.logger = zerolog.New(out).Level(level).With().Timestamp().Str("service", c.serviceName).Logger()
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RSVPBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "rsvpbox",
		Short:         "A party invitation with RSVP collection, a gatekeeping minigame, and a tiny admin area.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			cfg.initLogger(cmd.OutOrStdout())
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.adminUser, "admin-user", "admincumple", "guest list viewer username (env: RSVPBOX_ADMIN_USER)")
	fs.StringVar(&cfg.adminPass, "admin-pass", "1234", "guest list viewer password (env: RSVPBOX_ADMIN_PASS)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: RSVPBOX_BIND)")
	fs.StringVar(&cfg.date, "date", "05/01/26", "party date shown on the invitation (env: RSVPBOX_DATE)")
	fs.StringVar(&cfg.db, "db", "kvdb://rsvpbox.db", "storage connection string: kvdb://, sqlite:// or memory:// (env: RSVPBOX_DB)")
	fs.StringVar(&cfg.logFormat, "log-format", "console", "log output format: console or json (env: RSVPBOX_LOG_FORMAT)")
	fs.StringVar(&cfg.otlpAddr, "otlp-grpc", "", "otlp/gRPC trace collector address, disabled when empty (env: RSVPBOX_OTLP_GRPC)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: RSVPBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: RSVPBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: RSVPBOX_PROFILE)")
	fs.StringVar(&cfg.serviceName, "service-name", "rsvpbox", "service name attached to logs and traces (env: RSVPBOX_SERVICE_NAME)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle visitors are forgotten (env: RSVPBOX_SESSION_TIMEOUT)")
	fs.DurationVar(&cfg.submitDelay, "submit-delay", time.Second, "pause between an accepted RSVP and the minigame (env: RSVPBOX_SUBMIT_DELAY)")
	fs.StringVar(&cfg.superUser, "super-user", "superadmin", "content editor username (env: RSVPBOX_SUPER_USER)")
	fs.StringVar(&cfg.superPass, "super-pass", "super1234", "content editor password (env: RSVPBOX_SUPER_PASS)")
	fs.StringVar(&cfg.startTime, "time", "16:00 HS", "party start time shown on the invitation (env: RSVPBOX_TIME)")
	fs.StringVar(&cfg.title, "title", "TIAGO", "party title shown on the invitation (env: RSVPBOX_TITLE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: RSVPBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: RSVPBOX_TLS_KEY)")
	fs.StringVar(&cfg.venue, "venue", "Damian Garat 1175", "party address shown on the invitation (env: RSVPBOX_VENUE)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: RSVPBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: RSVPBOX_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("rsvpbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
