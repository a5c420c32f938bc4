// Package swagger registers the OpenAPI document served under /docs.
// Regenerate with: swag init -g main.go -o docs/swagger --outputTypes go
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/killallgit/recipe-api"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports database and handoff mailbox status",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service is healthy", "schema": {"type": "object"}},
                    "503": {"description": "A dependency is unhealthy", "schema": {"type": "object"}}
                }
            }
        },
        "/version": {
            "get": {
                "produces": ["application/json"],
                "tags": ["version"],
                "summary": "Build information",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/api/v1/shares": {
            "post": {
                "description": "Validates an Instagram or TikTok URL, replaces any pending extraction and publishes a new payload",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shares"],
                "summary": "Share a post",
                "parameters": [
                    {
                        "description": "Shared post",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.ShareRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Payload published", "schema": {"$ref": "#/definitions/types.ShareResponse"}},
                    "400": {"description": "Invalid URL or audio path", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Rate limit exceeded", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/extraction": {
            "get": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Current extraction state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ExtractionStateResponse"}}
                }
            }
        },
        "/api/v1/extraction/check": {
            "post": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Pick up a pending payload",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CheckResponse"}}
                }
            }
        },
        "/api/v1/extraction/retry": {
            "post": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Retry a failed extraction",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/types.ExtractionStateResponse"}},
                    "409": {"description": "Not in the error phase", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/extraction/dismiss": {
            "post": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Dismiss the current extraction",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ExtractionStateResponse"}}
                }
            }
        },
        "/api/v1/extraction/manual": {
            "post": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Create recipe manually",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ManualRecipeResponse"}},
                    "409": {"description": "Not in the error phase", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/extraction/save": {
            "post": {
                "produces": ["application/json"],
                "tags": ["extraction"],
                "summary": "Save extracted recipe",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.RecipeResponse"}},
                    "409": {"description": "No successful extraction to save", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/recipes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recipes"],
                "summary": "List recipes",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RecipesResponse"}}
                }
            }
        },
        "/api/v1/recipes/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["recipes"],
                "summary": "Get recipe",
                "parameters": [
                    {"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.RecipeResponse"}},
                    "404": {"description": "Recipe not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["recipes"],
                "summary": "Delete recipe",
                "parameters": [
                    {"type": "integer", "description": "Recipe ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.BaseResponse"}},
                    "404": {"description": "Recipe not found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.BaseResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "types.ShareRequest": {
            "type": "object",
            "required": ["url"],
            "properties": {
                "url": {"type": "string"},
                "caption": {"type": "string"},
                "audio_path": {"type": "string"}
            }
        },
        "types.ShareResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "payload": {"type": "object"}
            }
        },
        "types.ExtractionStateResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "phase": {"type": "string", "enum": ["idle", "processing", "success", "error"]},
                "payload_id": {"type": "string"},
                "recipe": {"type": "object"},
                "error": {"type": "object"}
            }
        },
        "types.CheckResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "phase": {"type": "string"},
                "started": {"type": "boolean"}
            }
        },
        "types.ManualRecipeResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "recipe": {"type": "object"}
            }
        },
        "types.RecipeResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"},
                "recipe": {"type": "object"}
            }
        },
        "types.RecipesResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "recipes": {"type": "array", "items": {"type": "object"}},
                "count": {"type": "integer"},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Recipe Extraction API",
	Description:      "Turns shared cooking videos into structured recipes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
