// Package docs registers the Swagger description of the admin API. Keep it in
// sync with the swag annotations on the handlers in the http package.
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
        "/admin/api/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Returns the authenticated administrator",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AdminClaims"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/admin/api/questions": {
            "get": {
                "description": "Includes unpublished questions and the was_published_recently flag. Ordered by pub_date, newest first.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Lists questions for administrators",
                "parameters": [
                    {"type": "string", "description": "case-insensitive search on question text", "name": "q", "in": "query"},
                    {"type": "string", "description": "any, today, past_7_days, this_month or this_year", "name": "pub_date", "in": "query"},
                    {"type": "integer", "description": "page number, 10 questions per page", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.AdminQuestionRow"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "post": {
                "description": "Choice rows with blank text are ignored.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Creates a question with inline choices",
                "parameters": [
                    {"description": "question", "name": "question", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.questionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/admin/api/questions/new": {
            "get": {
                "description": "Returns an empty question with pub_date set to now and three blank choice slots.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Blank question form",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Question"}}
                }
            }
        },
        "/admin/api/questions/{id}": {
            "get": {
                "description": "Returns the question with all of its choices followed by three blank choice slots.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Question change form",
                "parameters": [
                    {"type": "string", "description": "question id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AdminQuestionRow"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "put": {
                "description": "Rows with an id are updated, or removed when delete is true. Rows without id are added.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Updates a question and its inline choices",
                "parameters": [
                    {"type": "string", "description": "question id", "name": "id", "in": "path", "required": true},
                    {"description": "question", "name": "question", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.questionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Question"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            },
            "delete": {
                "tags": ["admin"],
                "summary": "Deletes a question and its choices",
                "parameters": [
                    {"type": "string", "description": "question id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "description": "Checks the form credentials and sets the access_token cookie used by ` + "`" + `/admin/api` + "`" + ` calls.",
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["auth"],
                "summary": "Logs an administrator in",
                "parameters": [
                    {"type": "string", "description": "admin username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "admin password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "303": {"description": "See Other"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.errorResponse"}}
                }
            }
        },
        "/admin/logout": {
            "post": {
                "description": "Clears the access token cookie",
                "tags": ["auth"],
                "summary": "Logs the administrator out",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "domain.AdminClaims": {
            "type": "object",
            "properties": {
                "exp": {"type": "string"},
                "iat": {"type": "string"},
                "sub": {"type": "string"}
            }
        },
        "domain.AdminQuestionRow": {
            "type": "object",
            "properties": {
                "choices": {"type": "array", "items": {"$ref": "#/definitions/domain.Choice"}},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "pub_date": {"type": "string"},
                "question_text": {"type": "string"},
                "was_published_recently": {"type": "boolean"}
            }
        },
        "domain.Choice": {
            "type": "object",
            "properties": {
                "choice_text": {"type": "string"},
                "id": {"type": "string"},
                "question_id": {"type": "string"},
                "votes": {"type": "integer"}
            }
        },
        "domain.Question": {
            "type": "object",
            "properties": {
                "choices": {"type": "array", "items": {"$ref": "#/definitions/domain.Choice"}},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "pub_date": {"type": "string"},
                "question_text": {"type": "string"}
            }
        },
        "http.choiceRequest": {
            "type": "object",
            "properties": {
                "choice_text": {"type": "string"},
                "delete": {"type": "boolean"},
                "id": {"type": "string"}
            }
        },
        "http.errorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "http.questionRequest": {
            "type": "object",
            "properties": {
                "choices": {"type": "array", "items": {"$ref": "#/definitions/http.choiceRequest"}},
                "pub_date": {"type": "string"},
                "question_text": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Polls API",
	Description:      "Public poll pages and the administrative question API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
