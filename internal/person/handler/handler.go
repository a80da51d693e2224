package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/persondb/go-services/internal/person"
	"github.com/persondb/go-services/internal/person/service"
)

// RegisterPersonRoutes mounts the person API on r.
func RegisterPersonRoutes(r gin.IRouter, svc service.Service) {
	h := &personHandler{svc: svc}

	people := r.Group("/api/people")
	people.POST("", h.create)
	people.GET("", h.findByName)
	people.PATCH("", h.setAgeByName)
	people.DELETE("", h.deleteByName)
	people.GET("/:id", h.get)
	people.DELETE("/:id", h.deleteByID)
	people.POST("/:id/favorite-foods", h.addFavoriteFood)

	foods := r.Group("/api/favorite-foods/:food")
	foods.GET("/first", h.findOneByFood)
	foods.GET("/people", h.query)
}

type personHandler struct {
	svc service.Service
}

// create accepts a single person object or an array of them.
func (h *personHandler) create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var in []person.Input
		if err := json.Unmarshal(trimmed, &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out, err := h.svc.CreateMany(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
		return
	}
	var in person.Input
	if err := json.Unmarshal(trimmed, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.CreateOne(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *personHandler) findByName(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	out, err := h.svc.FindByName(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *personHandler) setAgeByName(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	var req struct {
		Age *int `json:"age" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.SetAgeByName(c.Request.Context(), name, *req.Age)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *personHandler) deleteByName(c *gin.Context) {
	name, ok := requireName(c)
	if !ok {
		return
	}
	sum, err := h.svc.DeleteByName(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *personHandler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *personHandler) deleteByID(c *gin.Context) {
	p, err := h.svc.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *personHandler) addFavoriteFood(c *gin.Context) {
	var req struct {
		Food string `json:"food"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.AddFavoriteFoodAndSave(c.Request.Context(), c.Param("id"), req.Food)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *personHandler) findOneByFood(c *gin.Context) {
	p, err := h.svc.FindOneByFavoriteFood(c.Request.Context(), c.Param("food"))
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// query serves the favorite-food chain: ?limit=2&sort=name&exclude=age
func (h *personHandler) query(c *gin.Context) {
	var limit int64
	if v := c.Query("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}
	q := person.Query{
		FavoriteFood: c.Param("food"),
		Limit:        limit,
		SortByName:   c.Query("sort") == "name",
		ExcludeAge:   c.Query("exclude") == "age",
	}
	out, err := h.svc.Query(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func requireName(c *gin.Context) (string, bool) {
	name, ok := c.GetQuery("name")
	if !ok || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return "", false
	}
	return name, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, person.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, person.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store failure"})
	}
}
