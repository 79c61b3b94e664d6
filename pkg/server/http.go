package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"admissions-backoffice/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ProvideHTTPServer = fx.Module("http.server",
	fx.Provide(NewHttpServer),
	fx.Invoke(Run),
)

type Server struct {
	server *http.Server
	certs  *certReloader
}

type Params struct {
	fx.In
	Config  *config.Config
	Handler *gin.Engine
}

func NewHttpServer(p Params) (*Server, error) {
	cfg := p.Config
	srv := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Addr),
			Handler:      p.Handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}

	if cfg.TLS.Enable {
		srv.certs = newCertReloader(cfg.TLS.CertPath, cfg.TLS.KeyPath)
		if err := srv.certs.Reload(); err != nil {
			return nil, err
		}
		srv.server.TLSConfig = srv.certs.TLSConfig()
	}

	return srv, nil
}

func (s *Server) serve() error {
	if s.certs != nil {
		return s.server.ListenAndServeTLS("", "")
	}
	return s.server.ListenAndServe()
}

func Run(lc fx.Lifecycle, sd fx.Shutdowner, srv *Server) {
	watchCtx, stopWatch := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if srv.certs != nil {
				go func() {
					if err := srv.certs.Watch(watchCtx); err != nil {
						zap.L().Error("certificate watcher stopped", zap.Error(err))
					}
				}()
			}

			go func() {
				zap.L().Info("starting HTTP server", zap.String("addr", srv.server.Addr), zap.Bool("tls", srv.certs != nil))
				if err := srv.serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					zap.L().Error("HTTP server stopped", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopWatch()
			zap.L().Info("shutting down HTTP server")
			return srv.server.Shutdown(ctx)
		},
	})
}
