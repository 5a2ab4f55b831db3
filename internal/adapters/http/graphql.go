package http

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"key":              &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"coordinates":      &graphql.Field{Type: geoPointType},
			"resources":        &graphql.Field{Type: graphql.NewList(graphql.String)},
			"alert":            &graphql.Field{Type: graphql.String},
			"danger":           &graphql.Field{Type: graphql.String},
			"description":      &graphql.Field{Type: graphql.String},
			"history":          &graphql.Field{Type: graphql.String},
			"threats":          &graphql.Field{Type: graphql.String},
			"tactical_notes":   &graphql.Field{Type: graphql.String},
			"resource_density": &graphql.Field{Type: graphql.String},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ResourceMarker",
		Fields: graphql.Fields{
			"kind":         &graphql.Field{Type: graphql.String},
			"glyph":        &graphql.Field{Type: graphql.String},
			"color":        &graphql.Field{Type: graphql.String},
			"display_name": &graphql.Field{Type: graphql.String},
		},
	})

	statusType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ARIAStatus",
		Fields: graphql.Fields{
			"ai_online":           &graphql.Field{Type: graphql.Boolean},
			"model":               &graphql.Field{Type: graphql.String},
			"conversation_length": &graphql.Field{Type: graphql.Int},
			"max_tokens":          &graphql.Field{Type: graphql.Int},
			"temperature":         &graphql.Field{Type: graphql.Float},
			"status":              &graphql.Field{Type: graphql.String},
		},
	})

	entryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ConversationEntry",
		Fields: graphql.Fields{
			"role":    &graphql.Field{Type: graphql.String},
			"content": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "List all zones in detection precedence order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Atlas.Ordered(), nil
				},
			},
			"zone": &graphql.Field{
				Type:        zoneType,
				Description: "Get a zone by key, e.g. \"Zone A\"",
				Args: graphql.FieldConfigArgument{
					"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					key, _ := p.Args["key"].(string)
					z, ok := deps.Atlas.Get(key)
					if !ok {
						return nil, nil
					}
					return z, nil
				},
			},
			"markers": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "Resource marker definitions sorted by kind",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					all := deps.Atlas.ResourceMarkers()
					kinds := make([]string, 0, len(all))
					for k := range all {
						kinds = append(kinds, k)
					}
					slices.Sort(kinds)

					out := make([]map[string]interface{}, 0, len(kinds))
					for _, k := range kinds {
						m := all[k]
						out = append(out, map[string]interface{}{
							"kind":         k,
							"glyph":        m.Glyph,
							"color":        m.Color,
							"display_name": m.DisplayName,
						})
					}
					return out, nil
				},
			},
			"ariaStatus": &graphql.Field{
				Type:        statusType,
				Description: "ARIA connectivity and settings",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.ARIA.Status(), nil
				},
			},
			"history": &graphql.Field{
				Type:        graphql.NewList(entryType),
				Description: "Recent ARIA conversation, oldest first",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.ARIA.History(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
