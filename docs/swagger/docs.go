// Package swagger registers the OpenAPI document served at /swagger/doc.json.
// It is maintained by hand alongside the godoc annotations in
// internal/gallery/handler.go; keep paths and bodies in step with them.
package swagger

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
        "/gallery": {
            "get": {
                "description": "Returns the object list, the visible subset under the active filter, the theme flag, the pending upload and whether an operation is in flight. An optional filter query parameter changes the active filter first.",
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Get gallery state",
                "parameters": [
                    {"type": "string", "description": "all, image, video or audio", "name": "filter", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.galleryBody"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/gallery/refresh": {
            "post": {
                "description": "Re-lists the container and replaces the object list. On failure the previous list is kept.",
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Refresh object list",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "502": {"description": "Bad Gateway", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}}
                }
            }
        },
        "/gallery/filter": {
            "put": {
                "description": "Changes which objects are visible. Does not contact storage.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Set filter",
                "parameters": [
                    {"description": "Filter", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/gallery.filterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.galleryBody"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/gallery/theme": {
            "post": {
                "description": "Flips the dark theme flag. Not persisted across restarts.",
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Toggle theme",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.themeBody"}}}]}}
                }
            }
        },
        "/gallery/selection": {
            "post": {
                "description": "Replaces the pending upload with the given file for the given category slot.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Select a file",
                "parameters": [
                    {"type": "string", "description": "image, video or audio", "name": "category", "in": "formData", "required": true},
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.galleryBody"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            },
            "delete": {
                "description": "Drops the pending upload.",
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Clear selection",
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.galleryBody"}}}]}}
                }
            }
        },
        "/gallery/upload": {
            "post": {
                "description": "Uploads the pending file as \"<unix-millis>-<name>\", refreshes the list and clears the selection.",
                "produces": ["application/json"],
                "tags": ["gallery"],
                "summary": "Upload the selected file",
                "responses": {
                    "201": {"description": "Created", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "409": {"description": "Conflict", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "502": {"description": "Bad Gateway", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}}
                }
            }
        },
        "/media": {
            "post": {
                "description": "Equivalent to POST /gallery/selection followed by POST /gallery/upload.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Select and upload in one request",
                "parameters": [
                    {"type": "string", "description": "image, video or audio", "name": "category", "in": "formData", "required": true},
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "Conflict", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}}
                }
            }
        },
        "/media/{name}": {
            "delete": {
                "description": "Deletes the named object and refreshes the list. No confirmation step.",
                "produces": ["application/json"],
                "tags": ["media"],
                "summary": "Delete an object",
                "parameters": [
                    {"type": "string", "description": "Object name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "404": {"description": "Not Found", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "409": {"description": "Conflict", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}},
                    "502": {"description": "Bad Gateway", "schema": {"allOf": [{"$ref": "#/definitions/response.Envelope"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/gallery.operationBody"}}}]}}
                }
            }
        },
        "/media/{name}/download": {
            "get": {
                "description": "Redirects to the object's directly fetchable URL.",
                "tags": ["media"],
                "summary": "Download an object",
                "parameters": [
                    {"type": "string", "description": "Object name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "gallery.filterRequest": {
            "type": "object",
            "properties": {
                "filter": {"type": "string", "example": "image"}
            }
        },
        "gallery.galleryBody": {
            "type": "object",
            "properties": {
                "darkTheme": {"type": "boolean"},
                "filter": {"type": "string", "example": "all"},
                "lastError": {"type": "string"},
                "loading": {"type": "boolean"},
                "objects": {"type": "array", "items": {"$ref": "#/definitions/gallery.mediaBody"}},
                "pending": {"$ref": "#/definitions/gallery.pendingBody"},
                "phase": {"type": "string", "example": "idle"},
                "refreshedAt": {"type": "string"},
                "visible": {"type": "array", "items": {"$ref": "#/definitions/gallery.mediaBody"}}
            }
        },
        "gallery.mediaBody": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "image"},
                "contentType": {"type": "string", "example": "image/png"},
                "lastModified": {"type": "string"},
                "name": {"type": "string", "example": "1700000000000-cat.png"},
                "size": {"type": "integer"},
                "title": {"type": "string", "example": "1700000000000-cat"},
                "url": {"type": "string", "example": "http://localhost:9000/gallery/1700000000000-cat.png"}
            }
        },
        "gallery.operationBody": {
            "type": "object",
            "properties": {
                "gallery": {"$ref": "#/definitions/gallery.galleryBody"},
                "result": {"$ref": "#/definitions/gallery.resultBody"}
            }
        },
        "gallery.pendingBody": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "image"},
                "contentType": {"type": "string", "example": "image/png"},
                "id": {"type": "string"},
                "name": {"type": "string", "example": "cat.png"},
                "size": {"type": "integer"}
            }
        },
        "gallery.resultBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "id": {"type": "string"},
                "key": {"type": "string", "example": "1700000000000-cat.png"},
                "op": {"type": "string", "example": "upload"},
                "partial": {"type": "boolean"},
                "superseded": {"type": "boolean"}
            }
        },
        "gallery.themeBody": {
            "type": "object",
            "properties": {
                "darkTheme": {"type": "boolean"}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "reason": {"type": "string", "example": "missing_input"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Media Gallery API",
	Description:      "Lists, uploads and deletes media objects in a storage container.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
