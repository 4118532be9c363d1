package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Calendar API",
        "description": "Term registry, day classification and aggregation for school calendars",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {
            "name": "Calendars",
            "description": "Calendar headers"
        },
        {
            "name": "Terms",
            "description": "Term registry"
        },
        {
            "name": "Days",
            "description": "Day classification"
        },
        {
            "name": "Aggregations",
            "description": "Summaries and lookups derived from classified days"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {
                        "description": "Ready"
                    },
                    "503": {
                        "description": "Degraded"
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/api/v1/calendars": {
            "post": {
                "tags": [
                    "Calendars"
                ],
                "summary": "Create calendar",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateCalendarRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}": {
            "get": {
                "tags": [
                    "Calendars"
                ],
                "summary": "Get calendar",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "patch": {
                "tags": [
                    "Calendars"
                ],
                "summary": "Patch calendar",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateCalendarRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/terms": {
            "get": {
                "tags": [
                    "Terms"
                ],
                "summary": "List terms",
                "description": "Terms sorted by order, then name in Japanese collation",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Terms"
                ],
                "summary": "Add term",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddTermRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/terms/bulk": {
            "post": {
                "tags": [
                    "Terms"
                ],
                "summary": "Bulk upsert terms by name",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/BulkUpsertTermsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/terms/presets": {
            "post": {
                "tags": [
                    "Terms"
                ],
                "summary": "Seed preset terms",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertPresetTermsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/terms/{termId}": {
            "patch": {
                "tags": [
                    "Terms"
                ],
                "summary": "Patch term",
                "description": "Absent fields are untouched, null clears a field",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "termId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpdateTermRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Terms"
                ],
                "summary": "Delete term",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "termId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/days": {
            "get": {
                "tags": [
                    "Days"
                ],
                "summary": "List classified days",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "from",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "to",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "Days"
                ],
                "summary": "Classify a date range",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertRangeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/days/{date}": {
            "put": {
                "tags": [
                    "Days"
                ],
                "summary": "Classify a date",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "date",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/UpsertDayRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/summary": {
            "get": {
                "tags": [
                    "Aggregations"
                ],
                "summary": "Term and vacation summary",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/summary/export": {
            "get": {
                "tags": [
                    "Aggregations"
                ],
                "summary": "Export term summary",
                "produces": [
                    "text/csv",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string",
                        "enum": [
                            "csv",
                            "pdf"
                        ],
                        "default": "csv"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File",
                        "schema": {
                            "type": "file"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/unique-terms": {
            "get": {
                "tags": [
                    "Aggregations"
                ],
                "summary": "Distinct terms referenced by days",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/api/v1/calendars/{calendarId}/weekday-dates": {
            "get": {
                "tags": [
                    "Aggregations"
                ],
                "summary": "Class dates of a term on a weekday",
                "description": "Omitting term_id selects days without a term",
                "parameters": [
                    {
                        "name": "calendarId",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "name": "term_id",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "weekday",
                        "in": "query",
                        "required": true,
                        "type": "string",
                        "enum": [
                            "日",
                            "月",
                            "火",
                            "水",
                            "木",
                            "金",
                            "土"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "CreateCalendarRequest": {
            "type": "object",
            "required": [
                "fiscal_year",
                "name"
            ],
            "properties": {
                "fiscal_year": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "disable_saturday_classes": {
                    "type": "boolean"
                }
            }
        },
        "UpdateCalendarRequest": {
            "type": "object",
            "properties": {
                "fiscal_year": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "disable_saturday_classes": {
                    "type": "boolean"
                }
            }
        },
        "AddTermRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            }
        },
        "BulkUpsertTermsRequest": {
            "type": "object",
            "required": [
                "names"
            ],
            "properties": {
                "names": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "TermPreset": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "name": {
                    "type": "string"
                },
                "short_name": {
                    "type": "string"
                },
                "holiday_flag": {
                    "type": "string",
                    "enum": [
                        "TEACHING",
                        "VACATION"
                    ]
                }
            }
        },
        "UpsertPresetTermsRequest": {
            "type": "object",
            "required": [
                "presets"
            ],
            "properties": {
                "presets": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/TermPreset"
                    }
                }
            }
        },
        "UpdateTermRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string",
                    "x-nullable": true
                },
                "short_name": {
                    "type": "string",
                    "x-nullable": true
                },
                "order": {
                    "type": "number",
                    "x-nullable": true
                },
                "class_count": {
                    "type": "number",
                    "x-nullable": true
                },
                "holiday_flag": {
                    "description": "TEACHING, VACATION or store code 1/2/3 as a string or number",
                    "type": "string",
                    "x-nullable": true
                }
            }
        },
        "UpsertDayRequest": {
            "type": "object",
            "required": [
                "type"
            ],
            "properties": {
                "type": {
                    "type": "string",
                    "enum": [
                        "UNSPECIFIED",
                        "CLASS",
                        "EXAM",
                        "RESERVE",
                        "CANCELLED"
                    ]
                },
                "term_id": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "class_weekday": {
                    "type": "number"
                },
                "class_order": {
                    "type": "integer"
                },
                "notification_reasons": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "UpsertRangeRequest": {
            "type": "object",
            "required": [
                "start_date",
                "end_date",
                "type"
            ],
            "properties": {
                "start_date": {
                    "type": "string"
                },
                "end_date": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "UNSPECIFIED",
                        "CLASS",
                        "EXAM",
                        "RESERVE",
                        "CANCELLED"
                    ]
                },
                "term_id": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
