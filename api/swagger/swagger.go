package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Student Schedule Planner API",
        "description": "Generates every conflict-free class schedule for a set of requested courses.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Schedule generation"},
        {"name": "Catalog", "description": "Courses and sections"},
        {"name": "Observability", "description": "Service counters"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate every conflict-free schedule for a set of courses",
                "consumes": ["application/json"],
                "produces": ["application/json", "text/csv", "application/pdf"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}},
                    {"in": "query", "name": "format", "type": "string", "enum": ["json", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Schedules (possibly empty or truncated)", "schema": {"$ref": "#/definitions/GenerateScheduleEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "A requested course has no sections", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate schedules (legacy path)",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Schedules", "schema": {"$ref": "#/definitions/GenerateScheduleEnvelope"}}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List every offered section",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add or update sections (legacy path)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/SaveSectionRequest"}}},
                    {"in": "query", "name": "clear", "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List catalog courses",
                "parameters": [
                    {"in": "query", "name": "department_id", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add or update catalog courses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/SaveCourseRequest"}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the sections of a course in catalog order",
                "parameters": [
                    {"in": "query", "name": "department_id", "type": "string", "required": true},
                    {"in": "query", "name": "course_number", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Add or update sections",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/SaveSectionRequest"}}},
                    {"in": "query", "name": "clear", "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated service counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "required": ["department_id", "course_number"],
            "properties": {
                "department_id": {"type": "string", "example": "CSCI"},
                "course_number": {"type": "string", "example": "1010"}
            }
        },
        "ReservedTimeRequest": {
            "type": "object",
            "required": ["days", "start_time", "end_time"],
            "properties": {
                "days": {"type": "array", "items": {"type": "string", "example": "TUESDAY"}},
                "start_time": {"type": "string", "example": "1300"},
                "end_time": {"type": "string", "example": "1700"},
                "description": {"type": "string", "example": "work"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["courses"],
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRequest"}},
                "reserved": {"type": "array", "items": {"$ref": "#/definitions/ReservedTimeRequest"}}
            }
        },
        "ScheduledSection": {
            "type": "object",
            "properties": {
                "department_id": {"type": "string"},
                "course_number": {"type": "string"},
                "section_id": {"type": "string"},
                "instructor": {"type": "string"},
                "days": {"type": "array", "items": {"type": "string"}},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "GenerateScheduleResponse": {
            "type": "object",
            "properties": {
                "schedules": {"type": "array", "items": {"type": "object", "properties": {"sections": {"type": "array", "items": {"$ref": "#/definitions/ScheduledSection"}}}}},
                "reserved": {"type": "array", "items": {"$ref": "#/definitions/ReservedTimeRequest"}},
                "count": {"type": "integer"},
                "truncated": {"type": "boolean"},
                "truncation_reason": {"type": "string", "enum": ["result_limit", "exploration_limit", "deadline"]},
                "explored": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "SaveCourseRequest": {
            "type": "object",
            "properties": {
                "departmentId": {"type": "string"},
                "courseNumber": {"type": "string"},
                "courseTitle": {"type": "string"}
            }
        },
        "SaveSectionRequest": {
            "type": "object",
            "properties": {
                "departmentId": {"type": "string"},
                "courseNumber": {"type": "string"},
                "sectionId": {"type": "string"},
                "instructor": {"type": "string"},
                "days": {"type": "string", "example": "MWF"},
                "startTime": {"type": "string", "example": "0900"},
                "endTime": {"type": "string", "example": "0950"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "GenerateScheduleEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerateScheduleResponse"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
