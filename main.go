// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"github.com/unleaktrade/site/config"
	"github.com/unleaktrade/site/content"
	"github.com/unleaktrade/site/mockapi"
	"github.com/unleaktrade/site/router"
	"github.com/unleaktrade/site/store"
	"github.com/unleaktrade/site/telemetry"
	"github.com/unleaktrade/site/waitlist"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := kingpin.New("unleak-site", "UnleakTrade waitlist site.")

	serveCmd := app.Command("serve", "Serve the public site.").Default()
	envFile := serveCmd.Flag("env-file", "dotenv file read before the environment.").Default(".env").String()

	mockCmd := app.Command("mockapi", "Serve an in-memory waitlist service for local development.")
	mockAddr := mockCmd.Flag("addr", "Listen address.").Default(":8081").String()
	siteOrigin := mockCmd.Flag("site-origin", "Origin used in activation links.").Default("http://localhost:8080").String()
	sponsors := mockCmd.Flag("sponsor", "Genesis sponsor wallet, repeatable.").Strings()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case serveCmd.FullCommand():
		err = runSite(ctx, *envFile)
	case mockCmd.FullCommand():
		err = runMock(ctx, *mockAddr, *siteOrigin, *sponsors)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newEcho(level string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(config.ParseLevel(level))

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	return e
}

// newServer wires the site around an already chosen visitor store and
// waitlist service.
func newServer(cfg config.Site, visitors store.Backend, wl router.Waitlist) (*echo.Echo, error) {
	catalog, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	e := newEcho(cfg.LogLevel)
	site := &router.Site{
		Brand:        cfg.Brand,
		PublicOrigin: cfg.PublicOrigin,
		Waitlist:     wl,
		Visitors:     visitors,
		Content:      catalog,
		SubmitRate:   rate.Limit(cfg.SubmitRate),
		SubmitBurst:  cfg.SubmitBurst,
	}
	site.RegisterRoutes(e)
	return e, nil
}

// openVisitors returns the configured visitor store and its close function.
func openVisitors(cfg config.Site, logger echo.Logger) (store.Backend, func() error, error) {
	if cfg.StoreBackend == "bolt" {
		b, err := store.OpenBolt(cfg.StorePath, cfg.SecureCookies)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	}

	secret, generated, err := cfg.Secret()
	if err != nil {
		return nil, nil, err
	}
	if generated {
		logger.Warn("UNLEAK_COOKIE_SECRET is not set; visitor cookies will not survive a restart")
	}
	b, err := store.NewCookieBackend(secret, cfg.SecureCookies)
	if err != nil {
		return nil, nil, err
	}
	return b, func() error { return nil }, nil
}

func runSite(ctx context.Context, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, "unleak-site", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("flush traces: %v", err)
		}
	}()

	logger := glog.New("site")
	logger.SetLevel(config.ParseLevel(cfg.LogLevel))
	visitors, closeVisitors, err := openVisitors(cfg, logger)
	if err != nil {
		return fmt.Errorf("visitor store: %w", err)
	}
	defer func() {
		if err := closeVisitors(); err != nil {
			log.Printf("close visitor store: %v", err)
		}
	}()

	e, err := newServer(cfg, visitors, waitlist.NewClient(cfg.WaitlistAPI, cfg.UpstreamTimeout))
	if err != nil {
		return err
	}
	e.Logger.Infof("waitlist service at %s", cfg.WaitlistAPI)
	return serve(ctx, e, cfg.Addr)
}

func runMock(ctx context.Context, addr, siteOrigin string, sponsors []string) error {
	e := newEcho("info")
	reg := mockapi.New(siteOrigin, sponsors...)
	reg.RegisterRoutes(e)
	e.Logger.Infof("mock waitlist service with %d genesis sponsors", len(sponsors))
	return serve(ctx, e, addr)
}

// serve runs e until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errc := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
