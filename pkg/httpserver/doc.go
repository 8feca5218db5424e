// Package httpserver runs an http.Handler with context-driven graceful
// shutdown and JSON health probes. The demo server uses it to expose the
// validators over HTTP.
//
// Run binds the listener, closes Ready, and serves until the context is
// cancelled or Shutdown is called. Shutdown drains in-flight requests for at
// most the configured shutdown timeout. Listen errors wrap ErrStart and
// shutdown errors wrap ErrShutdown.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	var cfg httpserver.Config
//	if err := config.LoadWith(&cfg, env.Options{Prefix: config.EnvPrefix}); err != nil {
//		return err
//	}
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	return srv.Run(ctx, router)
package httpserver
