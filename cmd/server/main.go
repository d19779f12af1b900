package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/api"
	"github.com/posline/escpos-engine/internal/command"
	"github.com/posline/escpos-engine/internal/config"
	"github.com/posline/escpos-engine/internal/logging"
	"github.com/posline/escpos-engine/internal/printer"
	"github.com/posline/escpos-engine/internal/tui"
)

// Version is set during build via ldflags.
var Version = "dev"

func main() {
	var (
		configPath  string
		headless    bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&headless, "headless", false, "run without the terminal dashboard")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// In dashboard mode logs go to the TUI's log panel; the panel does
	// not exist yet, so route them through a writer attached later.
	var log *zap.Logger
	var dashLog *deferredWriter
	if headless {
		log, err = logging.New(&cfg.Logging)
	} else {
		dashLog = &deferredWriter{}
		log, err = logging.NewWithWriter(&cfg.Logging, dashLog)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	manager, err := printer.NewManager(cfg.Printer.RegistryPath, log)
	if err != nil {
		log.Fatal("failed to create printer manager", zap.Error(err))
	}

	printers, err := manager.Detect()
	if err != nil {
		log.Warn("initial printer detection failed", zap.Error(err))
	}

	pool := printer.NewPool(cfg.Printer.DefaultBaud)
	defer pool.DisconnectAll()

	queue := printer.NewQueue(pool, manager, cfg.Printer.MaxRetries, log)
	defer queue.Stop()

	monitor := printer.NewMonitor(manager, cfg.Printer.MonitorInterval, log)
	executor := command.NewExecutor(manager, pool, queue, log)
	server := api.NewServer(cfg, manager, pool, queue, log)

	var app *tui.App
	if !headless {
		app = tui.New(manager, queue, executor, cfg.ServerAddr())
		dashLog.attach(app.LogWriter())
	}

	manager.OnAdded(func(p *printer.Printer) {
		server.BroadcastPrinterAdded(p)
		if app != nil {
			name := p.Description
			if p.Name != "" {
				name = p.Name
			}
			app.Log(fmt.Sprintf("printer connected: %s", name), "info")
		}
	})
	queue.OnUpdate(server.BroadcastJobUpdate)
	manager.OnRemoved(func(id string) {
		server.BroadcastPrinterRemoved(id)
		if app != nil {
			app.Log(fmt.Sprintf("printer disconnected: %s", id), "warning")
		}
	})

	monitor.Start()
	defer monitor.Stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Run(cfg.ServerAddr()); err != nil {
			serverErr <- err
		}
	}()

	log.Info("receipt engine started",
		zap.String("version", Version),
		zap.String("addr", cfg.ServerAddr()),
		zap.Int("printers", len(printers)))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if headless {
		select {
		case err := <-serverErr:
			log.Fatal("server error", zap.Error(err))
		case s := <-sig:
			log.Info("shutting down", zap.String("signal", s.String()))
		}
		return
	}

	tuiDone := make(chan struct{})
	go func() {
		defer close(tuiDone)
		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "dashboard error: %v\n", err)
		}
	}()

	select {
	case err := <-serverErr:
		app.Stop()
		<-tuiDone
		log.Fatal("server error", zap.Error(err))
	case <-sig:
		app.Stop()
		<-tuiDone
	case <-tuiDone:
	}
}

// deferredWriter drops writes until a destination is attached.
type deferredWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (d *deferredWriter) attach(w io.Writer) {
	d.mu.Lock()
	d.w = w
	d.mu.Unlock()
}

func (d *deferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w == nil {
		return len(p), nil
	}
	return d.w.Write(p)
}
