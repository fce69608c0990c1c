package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/erpdesk/internal/client/client"
	"github.com/dmitrijs2005/erpdesk/internal/client/config"
	"github.com/dmitrijs2005/erpdesk/internal/client/export"
	"github.com/dmitrijs2005/erpdesk/internal/client/guard"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/candidates"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/erpdesk/internal/client/services"
	"github.com/dmitrijs2005/erpdesk/internal/filex"
	"github.com/dmitrijs2005/erpdesk/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	log    logging.Logger

	session  services.SessionService
	pipeline services.PipelineService
	modules  services.ModuleService
	exporter export.Exporter
	prober   client.Prober
	guard    *guard.Guard

	mu   sync.Mutex
	mode Mode

	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer
}

// NewApp opens the local and session databases and builds the services on
// top of them. The caller must Run the app, which releases everything on
// exit.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	dbPath, err := filex.EnsureParentDir(c.DatabasePath)
	if err != nil {
		return nil, err
	}

	local, err := client.InitDatabase(ctx, "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}
	a.closers = append(a.closers, local)

	session, err := client.OpenSessionDatabase(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("init session database: %w", err)
	}
	a.closers = append(a.closers, session)

	authClient, err := client.NewHTTPClient(c.AuthBaseURL, c.RequestTimeout)
	if err != nil {
		a.close()
		return nil, err
	}

	if c.HealthEndpointAddr != "" {
		prober, err := client.NewHealthProber(c.HealthEndpointAddr, "")
		if err != nil {
			a.close()
			return nil, fmt.Errorf("health prober: %w", err)
		}
		a.prober = prober
		a.closers = append(a.closers, prober)
	}

	a.session = services.NewSessionService(authClient, local, services.WithSessionLogger(log.With("component", "session")))
	a.pipeline = services.NewPipelineService(
		candidates.NewKVRepository(kv.NewSQLiteRepository(session)),
		services.WithPipelineLogger(log.With("component", "pipeline")),
	)
	a.modules = services.NewModuleService(kv.NewSQLiteRepository(local), a.session, log.With("component", "modules"))
	a.exporter = export.NewS3Exporter(export.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	a.guard = guard.New(a.session)

	if err := a.pipeline.Load(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// Run starts the background watchers and blocks in the REPL until the user
// exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close()
	defer func() { _ = a.session.Close(ctx) }()

	a.println("Welcome to the ERP desk (type 'help' for commands)")

	if a.prober != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}
	go a.StartTokenRefresher(ctx, a.config.OnlineCheckInterval, a.config.RefreshLeeway)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
		a.println(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// getStatus renders the prompt status: user, module and mode.
func (a *App) getStatus() string {
	ctx := context.Background()
	s := ""
	if claims, err := a.session.Claims(ctx); err == nil && claims.UserName != "" {
		s = claims.UserName + " "
	}
	s += string(a.modules.Current(ctx))
	if m := a.currentMode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Check(ctx context.Context, r guard.Route) guard.Decision {
	return a.guard.Check(ctx, r)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// userMessage picks the text shown to the user for err. Messages from the
// Authentication Service are shown verbatim.
func userMessage(err error) string {
	var authErr *client.AuthenticationError
	switch {
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, client.ErrUnavailable):
		return "The server is unavailable, try again later."
	default:
		return err.Error()
	}
}
