// Package docs holds the OpenAPI description served by the order service
// at /swagger/index.html.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/carts": {
            "get": {
                "tags": ["carts"],
                "summary": "Current cart with total and item count",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            },
            "post": {
                "tags": ["carts"],
                "summary": "Add a product variant; same menuId, size and hotIce merge",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddToCartRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Unknown product", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["carts"],
                "summary": "Empty the cart",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/carts/{cartId}": {
            "delete": {
                "tags": ["carts"],
                "summary": "Remove one cart line",
                "parameters": [{"type": "string", "name": "cartId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/orders/checkout": {
            "post": {
                "tags": ["orders"],
                "summary": "Turn the cart into an order and empty the cart",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Empty cart or invalid form", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/orders": {
            "get": {
                "tags": ["orders"],
                "summary": "Order history of the caller, newest first",
                "parameters": [{"type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/orders/{noOrder}": {
            "get": {
                "tags": ["orders"],
                "summary": "One order of the caller",
                "parameters": [{"type": "string", "name": "noOrder", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/orders": {
            "get": {
                "tags": ["admin"],
                "summary": "Every order, newest first",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/admin/orders/{noOrder}/status": {
            "patch": {
                "tags": ["admin"],
                "summary": "Set the status of an order",
                "parameters": [
                    {"type": "string", "name": "noOrder", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid status", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/admin/orders/export": {
            "get": {
                "tags": ["admin"],
                "summary": "Order report as an xlsx workbook",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"}
            }
        },
        "AddToCartRequest": {
            "type": "object",
            "required": ["menuId", "quantity"],
            "properties": {
                "menuId": {"type": "string", "example": "m-iced-latte"},
                "size": {"type": "string", "example": "R"},
                "hotIce": {"type": "string", "example": "ice"},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "CheckoutRequest": {
            "type": "object",
            "required": ["fullName", "email", "address", "shipping"],
            "properties": {
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "shipping": {"type": "string", "enum": ["Dine In", "Door Delivery", "Pick Up"]}
            }
        },
        "StatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Pending", "Waiting", "On Progress", "Done", "Sending Goods", "Finish Order"]}
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
	Title:            "Cafe Order Service API",
	Description:      "Cart, checkout and order history of the cafe storefront.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
