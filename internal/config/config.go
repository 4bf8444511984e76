// Package config resolves the proxy's startup configuration from CLI
// flags, a .env file, and environment variable fallbacks.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"github.com/proxycraft/gqlproxy/internal/apperror"
	"github.com/proxycraft/gqlproxy/internal/model"
)

const (
	envGraphQLEndpoint   = "DEFAULT_SERVER_GRAPHQL_ENDPOINT"
	envGraphQLWSEndpoint = "DEFAULT_SERVER_GRAPHQL_WS_ENDPOINT"
	envProhibitMutation  = "DEFAULT_PROHIBIT_MUTATION"
)

// Config holds everything needed to stand up the proxy's router.
type Config struct {
	ListenAddr        string
	GraphQLEndpoint   string
	GraphQLWSEndpoint string
	ProhibitMutation  bool
	RequestHeaders    *model.Headers
	ResponseHeaders   *model.Headers
}

// repeatedFlag collects a repeatable -flag N:V ... into a string slice.
type repeatedFlag []string

func (r *repeatedFlag) String() string { return strings.Join(*r, ",") }
func (r *repeatedFlag) Set(value string) error {
	*r = append(*r, value)
	return nil
}

// ParseServe parses the `serve` subcommand's flags, loads a .env file
// (if present) for environment fallbacks, and resolves the final
// configuration. A missing upstream endpoint or a malformed boolean
// environment variable is a fatal ConfigurationError.
func ParseServe(args []string) (Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listenAddr := fs.String("l", ":8080", "listen address")
	graphqlEndpoint := fs.String("s", "", "upstream GraphQL HTTP endpoint")
	graphqlWSEndpoint := fs.String("w", "", "upstream GraphQL WS endpoint")
	prohibitMutation := fs.Bool("m", false, "prohibit mutations")
	var requestHeaderFlags, responseHeaderFlags repeatedFlag
	fs.Var(&requestHeaderFlags, "request-header", "N:V request header overlay entry, repeatable")
	fs.Var(&responseHeaderFlags, "response-header", "N:V response header overlay entry, repeatable")

	if err := fs.Parse(args); err != nil {
		return Config{}, &apperror.ConfigurationError{Reason: "parsing flags", Err: err}
	}

	endpoint := *graphqlEndpoint
	if endpoint == "" {
		endpoint = os.Getenv(envGraphQLEndpoint)
	}
	if endpoint == "" {
		return Config{}, apperror.UnspecifiedGraphQLEndpointError()
	}

	wsEndpoint := *graphqlWSEndpoint
	if wsEndpoint == "" {
		wsEndpoint = os.Getenv(envGraphQLWSEndpoint)
	}
	if wsEndpoint == "" {
		return Config{}, apperror.UnspecifiedGraphQLWSEndpointError()
	}

	prohibit := *prohibitMutation
	if !flagWasSet(fs, "m") {
		if raw, ok := os.LookupEnv(envProhibitMutation); ok {
			v, err := cast.ToBoolE(raw)
			if err != nil {
				return Config{}, &apperror.ConfigurationError{
					Reason: "resolving configuration",
					Err:    &apperror.CannotParseBoolFromEnvVarError{VarName: envProhibitMutation, Err: err},
				}
			}
			prohibit = v
		}
	}

	requestHeaders, err := parseHeaderFlags(requestHeaderFlags)
	if err != nil {
		return Config{}, &apperror.ConfigurationError{Reason: "parsing --request-header", Err: err}
	}
	responseHeaders, err := parseHeaderFlags(responseHeaderFlags)
	if err != nil {
		return Config{}, &apperror.ConfigurationError{Reason: "parsing --response-header", Err: err}
	}

	return Config{
		ListenAddr:        *listenAddr,
		GraphQLEndpoint:   endpoint,
		GraphQLWSEndpoint: wsEndpoint,
		ProhibitMutation:  prohibit,
		RequestHeaders:    requestHeaders,
		ResponseHeaders:   responseHeaders,
	}, nil
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func parseHeaderFlags(values []string) (*model.Headers, error) {
	headers := model.NewHeaders()
	for _, v := range values {
		name, value, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header flag %q, expected N:V", v)
		}
		headers.Append(name, value)
	}
	return headers, nil
}
