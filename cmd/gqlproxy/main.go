// Command gqlproxy runs an interactive, intercepting GraphQL proxy: it
// forwards HTTP and WebSocket GraphQL traffic to an upstream server
// while mirroring every exchange onto an administrative GraphQL API.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/proxycraft/gqlproxy/internal/adminapi"
	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/apperror"
	"github.com/proxycraft/gqlproxy/internal/config"
	"github.com/proxycraft/gqlproxy/internal/httpproxy"
	"github.com/proxycraft/gqlproxy/internal/router"
	"github.com/proxycraft/gqlproxy/internal/wsproxy"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: gqlproxy <serve|sdl> [flags]")
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "sdl":
		err = runSDL()
	default:
		err = fmt.Errorf("unknown subcommand %q, expected serve or sdl", os.Args[1])
	}

	if err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}
}

func runServe(args []string) error {
	cfg, err := config.ParseServe(args)
	if err != nil {
		return err
	}

	state := adminstate.New(cfg.GraphQLEndpoint, cfg.GraphQLWSEndpoint, cfg.ProhibitMutation, cfg.RequestHeaders, cfg.ResponseHeaders)

	admin, err := adminapi.New(state)
	if err != nil {
		return &apperror.ConfigurationError{Reason: "building admin schema", Err: err}
	}

	mux := router.New(admin, adminapi.NewWSHandler(state), httpproxy.New(state), wsproxy.New(state))

	log.Printf("gqlproxy listening on %s, forwarding to %s / %s", cfg.ListenAddr, cfg.GraphQLEndpoint, cfg.GraphQLWSEndpoint)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		return &apperror.ConfigurationError{Reason: "binding listener", Err: err}
	}
	return nil
}

func runSDL() error {
	state := adminstate.New("", "", false, nil, nil)
	admin, err := adminapi.New(state)
	if err != nil {
		return &apperror.ConfigurationError{Reason: "building admin schema", Err: err}
	}
	fmt.Print(admin.SDL())
	return nil
}
