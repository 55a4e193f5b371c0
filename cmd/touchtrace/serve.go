// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gioui.org/multitouch/internal/config"
	"gioui.org/multitouch/internal/remote"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Recognize gestures for remote touch surfaces over websocket",
		Long: `serve accepts websocket connections on /ws. Clients send the complete
set of contacts whenever it changes and receive pinch, pan and long
press messages. See package gioui.org/multitouch/internal/remote for
the message format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.cfg.Listen = listen
			}
			ln, err := net.Listen("tcp", a.cfg.Listen)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ln, a.cfg, a.log)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides the configuration)")
	return cmd
}

// serve runs the websocket server on ln until ctx is done.
func serve(ctx context.Context, ln net.Listener, cfg config.Config, log *logrus.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", remote.NewHandler(cfg.Gesture(nil, log), cfg.EnableCORS, log))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", ln.Addr().String()).Info("serving websocket on /ws")
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
