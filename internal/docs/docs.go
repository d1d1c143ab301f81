// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/server/main.go -o internal/docs` after
// changing handler annotations.
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
        "/diagnoses": {
            "post": {
                "tags": ["diagnoses"],
                "summary": "Start a diagnosis",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "description": "entry preferences", "schema": {"$ref": "#/definitions/service.StartRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/service.StartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/diagnoses/{sessionId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnoses"],
                "summary": "Current diagnosis view",
                "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/sessionId"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnoses"],
                "summary": "Discard a diagnosis",
                "parameters": [{"$ref": "#/parameters/sessionId"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/diagnoses/{sessionId}/answers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnoses"],
                "summary": "Answer a question",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/sessionId"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/diagnoses/{sessionId}/back": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnoses"],
                "summary": "Undo the last answer",
                "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/sessionId"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}}}
            }
        },
        "/diagnoses/{sessionId}/reset": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["diagnoses"],
                "summary": "Clear every answer",
                "produces": ["application/json"],
                "parameters": [{"$ref": "#/parameters/sessionId"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.View"}}}
            }
        },
        "/categories": {
            "get": {
                "tags": ["catalog"],
                "summary": "Categories with their result page data",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}
            }
        },
        "/categories/{key}": {
            "get": {
                "tags": ["catalog"],
                "summary": "One category with template, primary and alternatives",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "key", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["catalog"],
                "summary": "Catalog products",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "category", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}}}
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "One catalog product",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/question-sets/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "A question set definition",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        }
    },
    "parameters": {
        "sessionId": {"in": "path", "name": "sessionId", "type": "string", "required": true}
    },
    "definitions": {
        "error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.AnswerRequest": {
            "type": "object",
            "properties": {
                "questionId": {"type": "string"},
                "optionKey": {"type": "string"}
            }
        },
        "service.StartRequest": {
            "type": "object",
            "properties": {
                "questionSetId": {"type": "string"},
                "preferredWeight": {"type": "string", "enum": ["under100", "over100"]},
                "preferredCategory": {"type": "string"}
            }
        },
        "service.StartResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "token": {"type": "string"},
                "view": {"$ref": "#/definitions/service.View"}
            }
        },
        "service.View": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "questionSetId": {"type": "string"},
                "preferredCategory": {"type": "string"},
                "mode": {"type": "string", "enum": ["undetermined", "light", "pro"]},
                "question": {"type": "object"},
                "progress": {"type": "object"},
                "complete": {"type": "boolean"},
                "constraints": {"type": "object"},
                "history": {"type": "array", "items": {"type": "object"}},
                "evaluation": {"type": "object"},
                "candidates": {"type": "array", "items": {"type": "object"}},
                "result": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Drone diagnosis API",
	Description:      "Adaptive questionnaire that recommends a drone category and models.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
