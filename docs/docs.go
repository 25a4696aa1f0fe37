// Package docs holds the OpenAPI template served at /swagger. It is maintained
// by hand and documents the leave, payroll, attendance and employee endpoints.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/leaves": {
            "post": {
                "tags": ["leaves"],
                "summary": "Submit a leave request",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateLeaveRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/leaves/{id}/approve": {
            "put": {
                "tags": ["leaves"],
                "summary": "Approve a pending leave request",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/payroll/calculate": {
            "post": {
                "tags": ["payroll"],
                "summary": "Calculate a monthly salary",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CalculateSalaryRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/attendance/checkin": {
            "post": {
                "tags": ["attendance"],
                "summary": "Check in for today",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PunchRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/employees": {
            "post": {
                "tags": ["employees"],
                "summary": "Provision an employee",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ProvisionEmployeeRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateLeaveRequest": {
            "type": "object",
            "required": ["endDate", "leaveType", "reason", "startDate"],
            "properties": {
                "userId": {"type": "integer"},
                "leaveType": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "dto.CalculateSalaryRequest": {
            "type": "object",
            "required": ["userId"],
            "properties": {
                "userId": {"type": "integer"},
                "month": {"type": "integer", "maximum": 11, "minimum": 0},
                "year": {"type": "integer"},
                "period": {"type": "string"}
            }
        },
        "dto.PunchRequest": {
            "type": "object",
            "required": ["lat", "lng"],
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"},
                "photo": {"type": "string"}
            }
        },
        "dto.ProvisionEmployeeRequest": {
            "type": "object",
            "required": ["email", "employeeCode", "firstName", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string"},
                "employeeCode": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "designation": {"type": "string"},
                "salaryType": {"type": "string"},
                "salary": {"type": "number"},
                "hourlyRate": {"type": "number"},
                "workingDays": {"type": "array", "items": {"type": "integer"}},
                "joiningDate": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "code": {"type": "integer"},
                "mess": {"type": "string"},
                "data": {},
                "error": {"type": "string"},
                "errorCode": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
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
	Title:            "Employee Management API",
	Description:      "Leave ledger, attendance and payroll.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
