// Command detectctl is a terminal client for the AI-generated-text
// detection service: submit text or PDFs for classification, browse and
// export the stored results, and manage application settings.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"detectctl/internal/api"
	"detectctl/internal/apperr"
	"detectctl/internal/config"
	"detectctl/internal/service"
	"detectctl/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `detectctl
Usage:
  detectctl [-config file] [-server URL] <cmd> [args]

Commands:
  version
  login        -email <email> -password <password>   (saves token)
  logout
  whoami
  analyze      -text <text> | -file <path|->  [-json]
  upload       -file <pdf>                    [-json]
  list         [-json]
  show         -id <id>                       [-json]
  rm           -id <id>
  export       -id <id> [-out dir]
  export-list  [-out dir]
  settings     [-json]
  set          <key=value> [key=value ...]
  clear-cache
`)
	os.Exit(2)
}

// app bundles the wired client stack for the subcommand handlers.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	client   *api.Client
	store    *session.Store
	records  *service.Records
	settings *service.Settings
}

func newApp(cfgPath, server string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if server != "" {
		cfg.ServerURL = server
	}
	log := newLogger(cfg.Debug)

	store := session.NewStore("", log)
	client, err := api.New(cfg, store, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		store:    store,
		records:  service.NewRecords(client, log),
		settings: service.NewSettings(client, log),
	}, nil
}

func newLogger(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// requireAuth settles the session from the persisted token and aborts the
// command when it does not resolve to a logged-in user.
func (a *app) requireAuth(ctx context.Context) {
	if err := a.store.Init(ctx, a.client); err != nil {
		fail(err)
	}
	if a.store.State() != session.StateAuthenticated {
		fail(errors.New("not logged in; run 'detectctl login' first"))
	}
}

// main dispatches subcommands against the configured server.
func main() {
	cfgPath := flag.String("config", "", "config file (default "+config.Path()+")")
	server := flag.String("server", "", "server base URL (overrides config)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	if cmd == "version" {
		fmt.Printf("detectctl %s (%s)\n", version, buildDate)
		return
	}

	a, err := newApp(*cfgPath, *server)
	if err != nil {
		fail(err)
	}
	defer func() { _ = a.log.Sync() }()

	// No outer deadline: each HTTP client carries its own timeout, and the
	// upload one is deliberately longer.
	ctx := context.Background()

	switch cmd {

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			fmt.Fprintln(os.Stderr, "need -email and -password")
			os.Exit(1)
		}
		if err := a.store.Login(ctx, a.client, *email, *password); err != nil {
			fail(err)
		}
		fmt.Printf("ok, logged in as %s\n", a.store.User().Username)

	case "logout":
		a.store.Logout()
		fmt.Println("ok")

	case "whoami":
		if err := a.store.Init(ctx, a.client); err != nil {
			fail(err)
		}
		if a.store.State() != session.StateAuthenticated {
			fmt.Fprintln(os.Stderr, "not logged in")
			os.Exit(1)
		}
		printJSON(a.store.User())

	case "analyze":
		a.cmdAnalyze(ctx, args)
	case "upload":
		a.cmdUpload(ctx, args)
	case "list":
		a.cmdList(ctx, args)
	case "show":
		a.cmdShow(ctx, args)
	case "rm":
		a.cmdRemove(ctx, args)
	case "export":
		a.cmdExport(ctx, args)
	case "export-list":
		a.cmdExportList(ctx, args)
	case "settings":
		a.cmdSettings(ctx, args)
	case "set":
		a.cmdSet(ctx, args)
	case "clear-cache":
		a.cmdClearCache(ctx)

	default:
		usage()
	}
}

// ---- helpers ----

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error: "+apperr.MessageOf(err))
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}
