package adminapi

import (
	"github.com/fiatjaf/graphql"
	"github.com/spf13/cast"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/model"
)

type resolvers struct {
	state adminstate.AdminState
}

func headersToList(h *model.Headers) []map[string]interface{} {
	entries := h.All()
	out := make([]map[string]interface{}, len(entries))
	for i, e := range entries {
		out[i] = map[string]interface{}{"name": e.Name, "value": e.Value}
	}
	return out
}

func (r *resolvers) queryFields() graphql.Fields {
	return graphql.Fields{
		"prohibitMutation": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.state.ProhibitMutation(), nil
			},
		},
		"serverEndpoints": &graphql.Field{
			Type: graphQLEndpointsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				e := r.state.ServerEndpoints()
				return map[string]interface{}{
					"graphQlEndpoint":   e.GraphQLEndpoint,
					"graphQlWsEndpoint": e.GraphQLWSEndpoint,
				}, nil
			},
		},
		"requestHeaders": &graphql.Field{
			Type: graphql.NewList(headerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return headersToList(r.state.RequestHeadersSnapshot()), nil
			},
		},
		"responseHeaders": &graphql.Field{
			Type: graphql.NewList(headerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return headersToList(r.state.ResponseHeadersSnapshot()), nil
			},
		},
		"requestHeader": &graphql.Field{
			Type: graphql.String,
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				name := cast.ToString(p.Args["name"])
				value, ok := r.state.RequestHeaderByName(name)
				if !ok {
					return nil, nil
				}
				return value, nil
			},
		},
		"responseHeader": &graphql.Field{
			Type: graphql.String,
			Args: graphql.FieldConfigArgument{
				"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				name := cast.ToString(p.Args["name"])
				value, ok := r.state.ResponseHeaderByName(name)
				if !ok {
					return nil, nil
				}
				return value, nil
			},
		},
	}
}

func (r *resolvers) mutationFields() graphql.Fields {
	stringArg := graphql.FieldConfigArgument{
		"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
	nameArg := graphql.FieldConfigArgument{
		"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	return graphql.Fields{
		"setServerEndpoints": &graphql.Field{
			Type: graphQLEndpointsType,
			Args: graphql.FieldConfigArgument{
				"graphQlEndpoint":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"graphQlWsEndpoint": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				next := model.GraphQLEndpoints{
					GraphQLEndpoint:   cast.ToString(p.Args["graphQlEndpoint"]),
					GraphQLWSEndpoint: cast.ToString(p.Args["graphQlWsEndpoint"]),
				}
				previous := r.state.SetServerEndpoints(next)
				return map[string]interface{}{
					"graphQlEndpoint":   previous.GraphQLEndpoint,
					"graphQlWsEndpoint": previous.GraphQLWSEndpoint,
				}, nil
			},
		},
		"setProhibitMutation": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: graphql.FieldConfigArgument{
				"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return r.state.SetProhibitMutation(cast.ToBool(p.Args["value"])), nil
			},
		},
		"addRequestHeader":    r.addHeaderField(r.state.MutateRequestHeaders, stringArg),
		"setRequestHeader":    r.setHeaderField(r.state.MutateRequestHeaders, stringArg),
		"removeRequestHeader": r.removeHeaderField(r.state.MutateRequestHeaders, nameArg),

		"addResponseHeader":    r.addHeaderField(r.state.MutateResponseHeaders, stringArg),
		"setResponseHeader":    r.setHeaderField(r.state.MutateResponseHeaders, stringArg),
		"removeResponseHeader": r.removeHeaderField(r.state.MutateResponseHeaders, nameArg),
	}
}

type headerMutator func(fn func(*model.Headers) (string, bool)) (string, bool)

func (r *resolvers) addHeaderField(mutate headerMutator, args graphql.FieldConfigArgument) *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.Boolean),
		Args: args,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			name := cast.ToString(p.Args["name"])
			value := cast.ToString(p.Args["value"])
			mutate(func(h *model.Headers) (string, bool) {
				h.Append(name, value)
				return "", true
			})
			return true, nil
		},
	}
}

func (r *resolvers) setHeaderField(mutate headerMutator, args graphql.FieldConfigArgument) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Args: args,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			name := cast.ToString(p.Args["name"])
			value := cast.ToString(p.Args["value"])
			previous, hadPrevious := mutate(func(h *model.Headers) (string, bool) {
				return h.Set(name, value)
			})
			if !hadPrevious {
				return nil, nil
			}
			return previous, nil
		},
	}
}

func (r *resolvers) removeHeaderField(mutate headerMutator, args graphql.FieldConfigArgument) *graphql.Field {
	return &graphql.Field{
		Type: graphql.String,
		Args: args,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			name := cast.ToString(p.Args["name"])
			removed, existed := mutate(func(h *model.Headers) (string, bool) {
				return h.Remove(name)
			})
			if !existed {
				return nil, nil
			}
			return removed, nil
		},
	}
}
