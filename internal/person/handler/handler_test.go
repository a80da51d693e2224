package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/persondb/go-services/internal/person/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func TestPersonHandler_CRUD(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterPersonRoutes(g, service.NewMemoryService())

	// create
	w := do(g, http.MethodPost, "/api/people", `{"name":"John Doe","age":25,"favoriteFoods":["pizza"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.Len(t, id, 24)

	// get
	w = do(g, http.MethodGet, "/api/people/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	// add favorite food
	w = do(g, http.MethodPost, "/api/people/"+id+"/favorite-foods", `{"food":"hamburger"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var edited struct {
		FavoriteFoods []string `json:"favoriteFoods"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
	assert.Equal(t, []string{"pizza", "hamburger"}, edited.FavoriteFoods)

	// first by food
	w = do(g, http.MethodGet, "/api/favorite-foods/hamburger/first", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(g, http.MethodGet, "/api/favorite-foods/caviar/first", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	// delete
	w = do(g, http.MethodDelete, "/api/people/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = do(g, http.MethodDelete, "/api/people/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = do(g, http.MethodGet, "/api/people/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPersonHandler_BulkAndNameOperations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterPersonRoutes(g, service.NewMemoryService())

	w := do(g, http.MethodPost, "/api/people", `[{"name":"Mary","age":31},{"name":"Mary","age":45},{"name":"Bob"}]`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created, 3)

	w = do(g, http.MethodGet, "/api/people?name=Mary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 2)

	w = do(g, http.MethodPatch, "/api/people?name=Mary", `{"age":20}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created[0]["id"], updated["id"])
	assert.Equal(t, float64(20), updated["age"])

	w = do(g, http.MethodPatch, "/api/people?name=Nobody", `{"age":20}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(g, http.MethodDelete, "/api/people?name=Mary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = do(g, http.MethodDelete, "/api/people?name=Mary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}

func TestPersonHandler_QueryChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterPersonRoutes(g, service.NewMemoryService())

	w := do(g, http.MethodPost, "/api/people", `[
		{"name":"Zed","age":40,"favoriteFoods":["burritos"]},
		{"name":"Carl","age":20,"favoriteFoods":["burritos"]},
		{"name":"Abe","age":51,"favoriteFoods":["burritos"]}
	]`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(g, http.MethodGet, "/api/favorite-foods/burritos/people?limit=2&sort=name&exclude=age", "")
	require.Equal(t, http.StatusOK, w.Code)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Abe", out[0]["name"])
	assert.Equal(t, "Carl", out[1]["name"])
	_, hasAge := out[0]["age"]
	assert.False(t, hasAge)

	w = do(g, http.MethodGet, "/api/favorite-foods/burritos/people?limit=abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(g, http.MethodGet, "/api/favorite-foods/burritos/people?limit=-3", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersonHandler_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterPersonRoutes(g, service.NewMemoryService())

	w := do(g, http.MethodPost, "/api/people", `{"age":3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")

	w = do(g, http.MethodPost, "/api/people", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/people", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/people/not-an-id", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodPatch, "/api/people?name=Mary", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
