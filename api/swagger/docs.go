// Package swagger holds the OpenAPI document for the VelocityCMDB API. It is
// served by the Swagger UI when server.dev_mode is enabled.
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
        "/health": {
            "get": {
                "description": "Returns service health status with version information.",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}}
                }
            }
        },
        "/locator/locate": {
            "get": {
                "description": "Correlates ARP, MAC-table and route captures to find the access port and best routes for an IPv4 address. Malformed input returns 200 with an explanatory summary.",
                "produces": ["application/json"],
                "tags": ["locator"],
                "summary": "Locate IP",
                "parameters": [
                    {"type": "string", "description": "IPv4 address", "name": "ip", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IPLocation"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIProblem"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.APIProblem"}}
                }
            }
        },
        "/locator/devices/{device}/routes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["locator"],
                "summary": "Device routes",
                "parameters": [
                    {"type": "string", "description": "Device name", "name": "device", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/locator.DeviceRoutesResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIProblem"}}
                }
            }
        },
        "/captures": {
            "post": {
                "description": "Stores raw command output for a device. Identical content refreshes the existing snapshot.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["captures"],
                "summary": "Store capture",
                "parameters": [
                    {"description": "Capture", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/capture.SaveCaptureRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Snapshot"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Snapshot"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.APIProblem"}}
                }
            }
        },
        "/captures/devices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["captures"],
                "summary": "List captured devices",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Device"}}}
                }
            }
        },
        "/captures/devices/{device}/{capture_type}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["captures"],
                "summary": "Latest capture",
                "parameters": [
                    {"type": "string", "description": "Device name", "name": "device", "in": "path", "required": true},
                    {"type": "string", "description": "Capture type", "name": "capture_type", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIProblem"}}
                }
            }
        }
    },
    "definitions": {
        "server.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "service": {"type": "string", "example": "velocitycmdb"},
                "version": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.APIProblem": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "title": {"type": "string"},
                "status": {"type": "integer"},
                "detail": {"type": "string"},
                "instance": {"type": "string"}
            }
        },
        "models.ARPEntry": {
            "type": "object",
            "properties": {
                "ip_address": {"type": "string", "example": "10.1.1.5"},
                "mac_address": {"type": "string", "example": "00:11:22:33:44:55"},
                "interface": {"type": "string", "example": "Vlan100"},
                "device_name": {"type": "string", "example": "core-sw-01"},
                "device_id": {"type": "integer", "example": 3},
                "vlan": {"type": "string", "example": "100"},
                "age": {"type": "string", "example": "5"}
            }
        },
        "models.MACEntry": {
            "type": "object",
            "properties": {
                "mac_address": {"type": "string", "example": "00:11:22:33:44:55"},
                "vlan": {"type": "string", "example": "100"},
                "port": {"type": "string", "example": "Gi1/0/12"},
                "device_name": {"type": "string", "example": "access-sw-07"},
                "device_id": {"type": "integer", "example": 7},
                "mac_type": {"type": "string", "example": "dynamic"}
            }
        },
        "models.RouteEntry": {
            "type": "object",
            "properties": {
                "prefix": {"type": "string", "example": "10.1.1.0/24"},
                "next_hop": {"type": "string", "example": "10.0.0.1"},
                "protocol": {"type": "string", "example": "OSPF"},
                "interface": {"type": "string", "example": "Ethernet49/1"},
                "device_name": {"type": "string", "example": "core-rtr-01"},
                "device_id": {"type": "integer", "example": 1},
                "metric": {"type": "string", "example": "140"},
                "ad": {"type": "string", "example": "110"}
            }
        },
        "models.IPLocation": {
            "type": "object",
            "properties": {
                "ip_address": {"type": "string", "example": "10.1.1.5"},
                "arp_entries": {"type": "array", "items": {"$ref": "#/definitions/models.ARPEntry"}},
                "mac_entries": {"type": "array", "items": {"$ref": "#/definitions/models.MACEntry"}},
                "route_entries": {"type": "array", "items": {"$ref": "#/definitions/models.RouteEntry"}},
                "access_port": {"$ref": "#/definitions/models.MACEntry"},
                "summary": {"type": "string", "example": "Located on access-sw-07 port Gi1/0/12 (VLAN 100)"}
            }
        },
        "models.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "device_id": {"type": "integer"},
                "device_name": {"type": "string", "example": "core-sw-01"},
                "capture_type": {"type": "string", "example": "arp"},
                "content": {"type": "string"},
                "content_hash": {"type": "string"},
                "captured_at": {"type": "string"}
            }
        },
        "models.Device": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string", "example": "core-sw-01"},
                "vendor": {"type": "string", "example": "arista"},
                "created_at": {"type": "string"},
                "last_captured": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "capture.SaveCaptureRequest": {
            "type": "object",
            "properties": {
                "device": {"type": "string", "example": "core-sw-01"},
                "vendor": {"type": "string", "example": "arista"},
                "capture_type": {"type": "string", "example": "arp"},
                "content": {"type": "string"},
                "captured_at": {"type": "string"}
            }
        },
        "locator.DeviceRoutesResponse": {
            "type": "object",
            "properties": {
                "device_name": {"type": "string", "example": "core-rtr-01"},
                "captured_at": {"type": "string"},
                "routes": {"type": "array", "items": {"$ref": "#/definitions/models.RouteEntry"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VelocityCMDB API",
	Description:      "Network state correlation over captured device output.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
