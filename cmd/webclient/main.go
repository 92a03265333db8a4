package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"

	"github.com/semanticallynull/customerrecords/internal/o11y"
	"github.com/semanticallynull/customerrecords/webclient"
)

var cli = struct {
	APIURL string `name:"api-url" env:"API_URL" default:"http://localhost:8080" help:"Base URL of the customer API."`
	Port   int    `name:"port" env:"PORT" default:"8081"`

	OTLPEndpoint string `name:"otlp-endpoint" env:"OTLP_ENDPOINT" default:"localhost:4318"`
}{}

func main() {
	if err := run(); err != nil {
		log.Fatalf("unexpected error: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	kong.Parse(&cli)

	obs, cleanup, err := o11y.Setup(ctx, "customer-webclient", cli.OTLPEndpoint)
	defer cleanup()
	if err != nil {
		return err
	}

	pages := webclient.New(webclient.NewClient(cli.APIURL), obs)

	serv := http.Server{
		Addr:    fmt.Sprintf(":%d", cli.Port),
		Handler: pages.Router(),
	}

	go func() {
		if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return serv.Shutdown(ctx)
}
