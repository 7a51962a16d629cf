// Package docs holds the OpenAPI document served under /swagger/.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/v1/users/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"type": "string", "name": "fullname", "in": "formData", "required": true},
                    {"type": "string", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "file", "name": "avatar", "in": "formData", "required": true},
                    {"type": "file", "name": "coverImage", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in with username or email",
                "parameters": [
                    {"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LoginResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/users/refresh-token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Rotate the refresh token and issue a new token pair",
                "parameters": [
                    {"name": "token", "in": "body", "schema": {"$ref": "#/definitions/model.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenPair"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Revoke the stored refresh token and clear cookies",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/users/current-user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/users/c/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a channel profile",
                "parameters": [
                    {"type": "string", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ChannelProfile"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/v1/videos": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "List published videos",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "string", "name": "query", "in": "query"},
                    {"type": "integer", "name": "userId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.VideoPage"}}
                }
            }
        },
        "/api/v1/videos/{videoId}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["videos"],
                "summary": "Get a video and count the view",
                "parameters": [
                    {"type": "integer", "name": "videoId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Video"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {
                "statusCode": {"type": "integer"},
                "message": {"type": "string"},
                "success": {"type": "boolean"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "model.RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "model.TokenPair": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "fullname": {"type": "string"},
                "avatar": {"type": "string"},
                "coverImage": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.LoginResult": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/model.User"},
                "accessToken": {"type": "string"},
                "refreshToken": {"type": "string"}
            }
        },
        "model.ChannelProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "fullname": {"type": "string"},
                "avatar": {"type": "string"},
                "coverImage": {"type": "string"},
                "subscribersCount": {"type": "integer"},
                "channelsSubscribedToCount": {"type": "integer"},
                "isSubscribed": {"type": "boolean"}
            }
        },
        "model.Video": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "videoFile": {"type": "string"},
                "thumbnail": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "duration": {"type": "number"},
                "views": {"type": "integer"},
                "isPublished": {"type": "boolean"},
                "owner": {"type": "integer"}
            }
        },
        "model.VideoPage": {
            "type": "object",
            "properties": {
                "videos": {"type": "array", "items": {"$ref": "#/definitions/model.Video"}},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalVideos": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "VideoTube API",
	Description:      "Video sharing backend with rotating JWT sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
