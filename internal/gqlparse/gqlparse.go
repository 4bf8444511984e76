// Package gqlparse inspects a client-supplied GraphQL request string just
// far enough to answer one question: is the operation that would run a
// mutation? It never executes anything; it only parses.
package gqlparse

import (
	"fmt"

	"github.com/fiatjaf/graphql/language/ast"
	"github.com/fiatjaf/graphql/language/parser"
	"github.com/fiatjaf/graphql/language/source"
)

// OperationType mirrors the three GraphQL operation kinds as they appear
// in an ast.OperationDefinition's Operation field.
type OperationType string

const (
	OperationTypeQuery        OperationType = "query"
	OperationTypeMutation     OperationType = "mutation"
	OperationTypeSubscription OperationType = "subscription"
)

// Document wraps a parsed GraphQL document so callers outside this
// package never need to reach into language/ast directly.
type Document struct {
	ast *ast.Document
}

// Parse parses a GraphQL request string. A syntax error is returned
// verbatim from the underlying parser, wrapped only with context.
func Parse(requestString string) (Document, error) {
	src := source.NewSource(&source.Source{
		Body: []byte(requestString),
		Name: "GraphQL request",
	})

	doc, err := parser.Parse(parser.ParseParams{Source: src})
	if err != nil {
		return Document{}, fmt.Errorf("parsing GraphQL request: %w", err)
	}

	return Document{ast: doc}, nil
}

// IsOperationOfType decides whether the operation this request would
// select — given an optional client-supplied operation name — is of
// queryType. Selection follows the same three cases as a GraphQL
// executor picking an operation to run:
//
//  1. Exactly one operation definition in the document: that operation
//     is used regardless of operationName.
//  2. More than one operation definition and operationName is set: the
//     matching definition is used; an unknown name answers false.
//  3. More than one operation definition and operationName is empty:
//     the document matches queryType if ANY operation definition does.
func (d Document) IsOperationOfType(operationName string, queryType OperationType) bool {
	ops := operationDefinitions(d.ast)

	if len(ops) == 1 {
		return operationTypeOf(ops[0]) == queryType
	}

	if operationName != "" {
		for _, op := range ops {
			if operationNameOf(op) == operationName {
				return operationTypeOf(op) == queryType
			}
		}
		return false
	}

	for _, op := range ops {
		if operationTypeOf(op) == queryType {
			return true
		}
	}
	return false
}

func operationDefinitions(doc *ast.Document) []*ast.OperationDefinition {
	if doc == nil {
		return nil
	}
	var ops []*ast.OperationDefinition
	for _, def := range doc.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

func operationTypeOf(op *ast.OperationDefinition) OperationType {
	return OperationType(op.Operation)
}

func operationNameOf(op *ast.OperationDefinition) string {
	if op.Name == nil {
		return ""
	}
	return op.Name.Value
}

// IsMutation is the specific case the HTTP proxy needs: does the
// selected operation mutate?
func (d Document) IsMutation(operationName string) bool {
	return d.IsOperationOfType(operationName, OperationTypeMutation)
}
