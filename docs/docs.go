// Package docs holds the generated swagger specification.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/partidos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["partidos"],
                "summary": "List matches with optional filters",
                "parameters": [
                    {"type": "string", "name": "torneoId", "in": "query"},
                    {"type": "string", "name": "categoria", "in": "query"},
                    {"type": "string", "name": "equipoId", "in": "query"},
                    {"type": "string", "name": "estado", "in": "query"},
                    {"type": "string", "name": "desde", "in": "query"},
                    {"type": "string", "name": "hasta", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["partidos"],
                "summary": "Create a match",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/partidos/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["partidos"],
                "summary": "Get a match with its play ledger",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["partidos"],
                "summary": "Update match details",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "tags": ["partidos"],
                "summary": "Delete a scheduled match",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}
            }
        },
        "/partidos/{id}/estado": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["partidos"],
                "summary": "Transition match state",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/partidos/{id}/jugadas": {
            "get": {
                "produces": ["application/json"],
                "tags": ["jugadas"],
                "summary": "List a match's plays in ledger order",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jugadas"],
                "summary": "Append a play and update the score",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/partidos/{id}/jugadas/ultima": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["jugadas"],
                "summary": "Remove the most recent play",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/partidos/{id}/jugadas/{jugadaId}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["jugadas"],
                "summary": "Remove a play by id and recompute the score",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "jugadaId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/generar-rol": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["rol"],
                "summary": "Generate a round-robin schedule for a category",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/rol/{torneoId}/{categoria}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["rol"],
                "summary": "Clear a category's scheduled fixtures",
                "parameters": [
                    {"type": "string", "name": "torneoId", "in": "path", "required": true},
                    {"type": "string", "name": "categoria", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Liga Flag API",
	Description:      "Match coordination API for flag football leagues: match lifecycle, play ledger, and schedule generation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
