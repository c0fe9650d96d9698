package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/yLucasx3/joga-go/activities"
	"github.com/yLucasx3/joga-go/api"
	"github.com/yLucasx3/joga-go/auth"
	"github.com/yLucasx3/joga-go/credentials"
	"github.com/yLucasx3/joga-go/fields"
	"github.com/yLucasx3/joga-go/internal/config"
	"github.com/yLucasx3/joga-go/keystore"
	"github.com/yLucasx3/joga-go/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "help" {
		displayBanner()
		usage()
		return nil
	}

	log := newLogger()

	cfg, err := config.Load(os.Getenv("JOGA_CONFIG"))
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, log)
	if err != nil {
		return err
	}

	return app.dispatch(ctx, args[0], args[1:])
}

// app holds the wired services behind the CLI commands.
type app struct {
	auth       *auth.Service
	users      *users.Service
	activities *activities.Service
	fields     *fields.Service
	log        zerolog.Logger
}

func buildApp(cfg config.Config, log zerolog.Logger) (*app, error) {
	store, err := keystore.NewFile(cfg.StorePath, cfg.StoreSecret)
	if err != nil {
		return nil, err
	}
	vault := credentials.NewVault(store)

	authClient, err := api.NewAuthClient(cfg.AuthBaseURL, api.WithAuthLogger(log))
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg.APIBaseURL, vault, api.NewSessionRefresh(vault, authClient), api.WithLogger(log))
	if err != nil {
		return nil, err
	}

	userService, err := users.NewService(client, vault, store)
	if err != nil {
		return nil, err
	}
	authService, err := auth.NewService(authClient, vault, store,
		auth.WithProfileFetcher(userService), auth.WithLogger(log))
	if err != nil {
		return nil, err
	}
	activityService, err := activities.NewService(client, store)
	if err != nil {
		return nil, err
	}
	fieldService, err := fields.NewService(client)
	if err != nil {
		return nil, err
	}

	return &app{
		auth:       authService,
		users:      userService,
		activities: activityService,
		fields:     fieldService,
		log:        log,
	}, nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "register":
		return a.register(ctx, args)
	case "me":
		return a.me(ctx)
	case "profile":
		return a.updateProfile(ctx, args)
	case "activities":
		return a.listActivities(ctx, args)
	case "join":
		return a.joinActivity(ctx, args)
	case "fields":
		return a.nearbyFields(ctx, args)
	case "courts":
		return a.searchCourts(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if os.Getenv("JOGA_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayBanner() {
	banner := figure.NewFigure("joga", "cybermedium", true)
	banner.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`Usage: joga <command> [flags]

Commands:
  login       -email -password          Sign in
  logout                                Sign out and clear local state
  register    -email -password [-phone] Create an account
  me                                    Show the signed-in user
  profile     [-name] [-phone] [-position] Update the signed-in user's profile
  activities  [-sport] [-city]          List activities
  join        -id -name -phone          Join an activity
  fields      -lat -lng [-radius]       List nearby fields
  courts      -q                        Search courts

Environment:
  JOGA_CONFIG        Path to config.toml
  JOGA_STORE_SECRET  Secret protecting the local credential store
  JOGA_DEBUG         Enable debug logging`)
}
