// Package docs holds the swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SignupRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "409": {"description": "Email taken", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in with email and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/firebase": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a federated ID token for a session",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.FederatedLoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue a new access token from the refreshToken cookie",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TokenResponse"}},
                    "401": {"description": "Not authenticated", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {"tags": ["Auth"], "summary": "Clear the refresh cookie", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.UserResponse"}}}
            }
        },
        "/boards": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "List the caller's boards",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.BoardSummaryResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Create a board with the default columns",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BoardNameRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.BoardSummaryResponse"}}}
            }
        },
        "/boards/current": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Oldest board, created on first use",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardResponse"}}}
            }
        },
        "/boards/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Board with columns and cards",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Rename a board",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BoardNameRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.BoardSummaryResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Boards"],
                "summary": "Delete a board",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/boards/{id}/columns": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Columns"],
                "summary": "Append a column",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ColumnNameRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.ColumnResponse"}}}
            }
        },
        "/boards/columns/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Columns"],
                "summary": "Rename a column",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ColumnNameRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ColumnResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Columns"],
                "summary": "Delete a column and its cards",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/columns/{id}/cards": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Cards"],
                "summary": "Append a card",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CardRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.CardResponse"}}}
            }
        },
        "/cards/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Cards"],
                "summary": "Edit a card",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CardRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.CardResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Cards"],
                "summary": "Delete a card",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/cards/{id}/move": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Cards"],
                "summary": "Move a card to a column and position",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.CardMoveRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Different board", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}}
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.SignupRequest": {"type": "object", "required": ["email", "name", "password"], "properties": {"email": {"type": "string"}, "name": {"type": "string"}, "password": {"type": "string", "minLength": 6}}},
        "handler.LoginRequest": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.FederatedLoginRequest": {"type": "object", "required": ["idToken"], "properties": {"idToken": {"type": "string"}}},
        "handler.TokenResponse": {"type": "object", "properties": {"accessToken": {"type": "string"}}},
        "handler.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "avatar": {"type": "string"}}},
        "handler.AuthResponse": {"type": "object", "properties": {"accessToken": {"type": "string"}, "user": {"$ref": "#/definitions/handler.UserResponse"}}},
        "handler.BoardNameRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
        "handler.BoardSummaryResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "userId": {"type": "string"}, "createdAt": {"type": "string"}}},
        "handler.BoardResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "userId": {"type": "string"}, "columns": {"type": "array", "items": {"$ref": "#/definitions/handler.ColumnResponse"}}}},
        "handler.ColumnNameRequest": {"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}},
        "handler.ColumnResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "boardId": {"type": "string"}, "position": {"type": "integer"}, "cards": {"type": "array", "items": {"$ref": "#/definitions/handler.CardResponse"}}}},
        "handler.CardRequest": {"type": "object", "required": ["title"], "properties": {"title": {"type": "string"}, "description": {"type": "string"}}},
        "handler.CardResponse": {"type": "object", "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "columnId": {"type": "string"}, "position": {"type": "integer"}}},
        "handler.CardMoveRequest": {"type": "object", "required": ["columnId", "position"], "properties": {"columnId": {"type": "string"}, "position": {"type": "integer", "minimum": 0}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3001",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Kanny API",
	Description:      "Boards, columns and cards with drag-and-drop ordering.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
