// Package adminapi exposes the proxy's shared state as a GraphQL API:
// queries and mutations over the upstream endpoints, the header
// overlays and the mutation gate, plus a subscription streaming
// messages observed on the data plane.
package adminapi

import (
	"github.com/fiatjaf/graphql"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
)

// jsonScalar carries an arbitrary JSON value (a captured message body)
// through the schema without forcing callers to pre-declare its shape.
var jsonScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "An arbitrary JSON value.",
	Serialize:   func(value interface{}) interface{} { return value },
	ParseValue:  func(value interface{}) interface{} { return value },
	ParseLiteral: func(valueAST interface{}) interface{} {
		return valueAST
	},
})

var graphQLEndpointsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "GraphQLEndpoints",
	Fields: graphql.Fields{
		"graphQlEndpoint": &graphql.Field{
			Type: graphql.String,
		},
		"graphQlWsEndpoint": &graphql.Field{
			Type: graphql.String,
		},
	},
})

var headerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Header",
	Fields: graphql.Fields{
		"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"value": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"connectionId":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"sequenceCounter":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"connectionType":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"messageDirection":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"message":            &graphql.Field{Type: jsonScalar},
		"transmittedHeaders": &graphql.Field{Type: graphql.NewList(headerType)},
		"serverEndpointUrl":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var messageFilterInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "MessageFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"filterType":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"connectionType":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"messageDirection": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"payloadType":      &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

// NewSchema assembles the admin API schema against the given shared
// state. Subscription is intentionally a thin, engine-independent root:
// the WS wire protocol is handled by this package's own handler rather
// than the engine's built-in subscription executor (see
// subscription.go), so the Subscription object here only declares the
// messages field in the schema and has no resolver. The `sdl` output is
// the hand-maintained string in handler.go, not derived from this
// object.
func NewSchema(state adminstate.AdminState) (graphql.Schema, error) {
	r := &resolvers{state: state}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: r.queryFields(),
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Mutation",
		Fields: r.mutationFields(),
	})

	subscription := graphql.NewObject(graphql.ObjectConfig{
		Name: "Subscription",
		Fields: graphql.Fields{
			"messages": &graphql.Field{
				Type: messageType,
				Args: graphql.FieldConfigArgument{
					"messageFilters": &graphql.ArgumentConfig{
						Type:         graphql.NewList(graphql.NewNonNull(messageFilterInputType)),
						DefaultValue: []interface{}{},
					},
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:        query,
		Mutation:     mutation,
		Subscription: subscription,
	})
}
