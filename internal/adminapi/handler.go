package adminapi

import (
	"io"
	"net/http"

	"github.com/fiatjaf/graphql"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/jsonutil"
	"github.com/proxycraft/gqlproxy/internal/model"
)

// Handler serves the admin GraphQL API: POST for query/mutation, the
// companion WS endpoint (see subscription.go) for the messages
// subscription.
type Handler struct {
	schema graphql.Schema
	state  adminstate.AdminState
}

// New builds the admin API handler and its schema against state.
func New(state adminstate.AdminState) (*Handler, error) {
	schema, err := NewSchema(state)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, state: state}, nil
}

// Schema exposes the built schema, e.g. for introspection over the API
// itself.
func (h *Handler) Schema() graphql.Schema { return h.schema }

// SDL renders the admin schema's type definitions. It is hand-maintained
// against schema.go rather than derived from the engine at runtime: the
// retrieved slice of the engine does not confirm a schema-printer API,
// and the schema here is small and fixed at compile time.
func (h *Handler) SDL() string {
	return `type Query {
  prohibitMutation: Boolean!
  serverEndpoints: GraphQLEndpoints
  requestHeaders: [Header]
  responseHeaders: [Header]
  requestHeader(name: String!): String
  responseHeader(name: String!): String
}

type Mutation {
  setServerEndpoints(graphQlEndpoint: String!, graphQlWsEndpoint: String!): GraphQLEndpoints
  setProhibitMutation(value: Boolean!): Boolean!
  addRequestHeader(name: String!, value: String!): Boolean!
  setRequestHeader(name: String!, value: String!): String
  removeRequestHeader(name: String!): String
  addResponseHeader(name: String!, value: String!): Boolean!
  setResponseHeader(name: String!, value: String!): String
  removeResponseHeader(name: String!): String
}

type Subscription {
  messages(messageFilters: [MessageFilterInput!] = []): Message
}

type GraphQLEndpoints {
  graphQlEndpoint: String
  graphQlWsEndpoint: String
}

type Header {
  name: String!
  value: String!
}

type Message {
  connectionId: String!
  sequenceCounter: Int!
  connectionType: String!
  messageDirection: String!
  message: JSON
  transmittedHeaders: [Header]
  serverEndpointUrl: String!
}

input MessageFilterInput {
  filterType: String!
  connectionType: String
  messageDirection: String
  payloadType: String
}

scalar JSON
`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse(err.Error()))
		return
	}

	var req model.GraphQLRequest
	if err := jsonutil.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse(err.Error()))
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":   result.Data,
		"errors": result.Errors,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	b, err := jsonutil.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
