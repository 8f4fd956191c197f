package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Innerview API",
        "description": "RTI/MTSS platform: calendar, screening instruments and intervention plans",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, refresh and logout"},
        {"name": "Calendar", "description": "Calendar events and participants"},
        {"name": "Instruments", "description": "Screening instruments and indicators"},
        {"name": "Screenings", "description": "Instrument applications"},
        {"name": "Results", "description": "Screening results"},
        {"name": "Interventions", "description": "Intervention plans and goals"},
        {"name": "Analytics", "description": "Dashboard aggregates"},
        {"name": "Reports", "description": "File exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar-events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List calendar events",
                "parameters": [
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Create calendar event",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar-events/{id}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get calendar event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Calendar"],
                "summary": "Update calendar event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete calendar event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/calendar-events/{id}/respond": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Respond to event invitation",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/screening-instruments": {
            "get": {
                "tags": ["Instruments"],
                "summary": "List screening instruments",
                "parameters": [{"name": "includeInactive", "in": "query", "type": "boolean"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Instruments"],
                "summary": "Create screening instrument",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/screening-instruments/{id}": {
            "get": {
                "tags": ["Instruments"],
                "summary": "Get screening instrument",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Instruments"],
                "summary": "Update screening instrument",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Instruments"],
                "summary": "Delete or deactivate screening instrument",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/screening-instruments/{id}/indicators": {
            "post": {
                "tags": ["Instruments"],
                "summary": "Add indicator",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/screening-instruments/{id}/indicators/{indicatorId}": {
            "patch": {
                "tags": ["Instruments"],
                "summary": "Update indicator",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "indicatorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Instruments"],
                "summary": "Delete indicator",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "indicatorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Indicator has results"}}
            }
        },
        "/screenings": {
            "get": {
                "tags": ["Screenings"],
                "summary": "List screenings",
                "parameters": [
                    {"name": "estudanteId", "in": "query", "type": "string"},
                    {"name": "instrumentoId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Screenings"],
                "summary": "Create screening",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/screenings/{id}": {
            "get": {
                "tags": ["Screenings"],
                "summary": "Get screening with results",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Screenings"],
                "summary": "Update screening",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Screenings"],
                "summary": "Delete screening",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Screening has results"}}
            }
        },
        "/screenings/{id}/results/batch": {
            "post": {
                "tags": ["Screenings"],
                "summary": "Register results in batch",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/screening-results": {
            "get": {
                "tags": ["Results"],
                "summary": "List results for a screening",
                "parameters": [{"name": "rastreioId", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Results"],
                "summary": "Register result",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/screening-results/{id}": {
            "patch": {
                "tags": ["Results"],
                "summary": "Update result",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Results"],
                "summary": "Delete result",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/intervention-plans": {
            "get": {
                "tags": ["Interventions"],
                "summary": "List intervention plans",
                "parameters": [
                    {"name": "estudanteId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Interventions"],
                "summary": "Create intervention plan",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/intervention-plans/{id}": {
            "get": {
                "tags": ["Interventions"],
                "summary": "Get intervention plan with goals",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "patch": {
                "tags": ["Interventions"],
                "summary": "Update intervention plan",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Interventions"],
                "summary": "Delete intervention plan",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/intervention-plans/{id}/goals": {
            "post": {
                "tags": ["Interventions"],
                "summary": "Add goal",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/intervention-plans/{id}/goals/{goalId}": {
            "patch": {
                "tags": ["Interventions"],
                "summary": "Update goal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "goalId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Interventions"],
                "summary": "Delete goal",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "goalId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/intervention-plans/{id}/goals/{goalId}/progress": {
            "post": {
                "tags": ["Interventions"],
                "summary": "Record goal progress",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "goalId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/overview": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Platform overview",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/instruments/{id}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Instrument statistics",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/reports/screenings/{id}/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export screening results",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File download"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
