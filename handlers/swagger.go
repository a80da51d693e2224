package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the person service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>persondb Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the person API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "persondb", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Person": { "type": "object", "required": ["name"], "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "age": {"type":"integer","minimum":0}, "favoriteFoods": {"type":"array","items":{"type":"string"}} } },
      "PersonInput": { "type": "object", "required": ["name"], "properties": { "name": {"type":"string"}, "age": {"type":"integer","minimum":0}, "favoriteFoods": {"type":"array","items":{"type":"string"}} } }
    }
  },
  "paths": {
    "/api/people": {
      "post": { "summary": "Create one person (object body) or many (array body)", "responses": { "201": { "description": "created" }, "400": { "description": "validation failed" } } },
      "get": { "summary": "Find people by exact name", "parameters": [{"name":"name","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "matching people, possibly empty" } } },
      "patch": { "summary": "Atomically set age on the first person with the name", "parameters": [{"name":"name","in":"query","required":true,"schema":{"type":"string"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"age":{"type":"integer"}}}}}}, "responses": { "200": { "description": "updated person" }, "404": { "description": "no match" } } },
      "delete": { "summary": "Delete every person with the name", "parameters": [{"name":"name","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "{count}" } } }
    },
    "/api/people/{id}": {
      "get": { "summary": "Get person by id", "responses": { "200": { "description": "person" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete person by id and return it", "responses": { "200": { "description": "removed person" }, "404": { "description": "not found" } } }
    },
    "/api/people/{id}/favorite-foods": {
      "post": { "summary": "Append a favorite food (load, modify, save)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"food":{"type":"string"}}}}}}, "responses": { "200": { "description": "updated person" }, "404": { "description": "not found" } } }
    },
    "/api/favorite-foods/{food}/first": {
      "get": { "summary": "First person who likes the food", "responses": { "200": { "description": "person" }, "404": { "description": "no match" } } }
    },
    "/api/favorite-foods/{food}/people": {
      "get": { "summary": "People who like the food; sort=name, limit=n, exclude=age", "responses": { "200": { "description": "people" }, "400": { "description": "bad limit" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
