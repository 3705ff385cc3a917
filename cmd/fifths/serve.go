package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/leandrodaf/fifths/internal/httpapi"
	"github.com/leandrodaf/fifths/sdk/contracts"
	"github.com/leandrodaf/fifths/sdk/theory"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	servePreview time.Duration
	serveSilent  bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().DurationVar(&servePreview, "preview", httpapi.DefaultPreviewDelay, "play the tonic chord once key selection settles for this long; 0 disables")
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "serve theory routes only, without opening a MIDI output")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the key engine and playback over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}

		engine := theory.NewEngine(contracts.WithEngineLogger(log))
		opts := []httpapi.Option{httpapi.WithLogger(log)}
		if !serveSilent {
			p, err := newPlayer(log)
			if err != nil {
				log.Warn("serving without sound", log.Field().Error("error", err))
			} else {
				defer p.Close()
				opts = append(opts, httpapi.WithMapper(p.Mapper))
				if servePreview > 0 {
					opts = append(opts, httpapi.WithPreview(servePreview))
				}
			}
		}

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           httpapi.New(engine, opts...).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, cancel := interruptContext()
		defer cancel()
		go func() {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info("listening", log.Field().String("addr", serveAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}
