package api

import (
	"iter"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iEmiya/ruaddress/model"
)

const (
	defaultLimit = 20
	maxLimit     = 1000
)

// AddressResponse is a ParsedAddress with its one-line rendering.
type AddressResponse struct {
	model.ParsedAddress
	Text string `json:"text"`
}

func newAddressResponse(a model.ParsedAddress) AddressResponse {
	return AddressResponse{ParsedAddress: a, Text: a.String()}
}

// collect reads at most limit elements of seq. total is taken from the hit
// info of the first element, or counts the elements when there is none.
func collect[T any](seq iter.Seq[T], limit int, info func(T) *model.HitInfo) ([]T, int) {
	out := make([]T, 0)
	total := 0
	for v := range seq {
		if len(out) == 0 {
			if hi := info(v); hi != nil {
				total = hi.TotalHits
			}
		}
		out = append(out, v)
		if len(out) >= limit {
			break
		}
	}
	if total < len(out) {
		total = len(out)
	}
	return out, total
}

func (api *API) limit(c *gin.Context) (int, bool) {
	n, result := ValidateLimit(c.Query("limit"), defaultLimit, maxLimit)
	if result.HasErrors() {
		SendStructuredValidationError(c, result)
		return 0, false
	}
	return n, true
}

func (api *API) code(c *gin.Context) (string, bool) {
	code := c.Param("code")
	if result := ValidateCode(code); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return "", false
	}
	return code, true
}

func (api *API) postalCode(c *gin.Context) (string, bool) {
	index := c.Param("index")
	if result := ValidatePostalCode(index); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return "", false
	}
	return index, true
}

// SearchHandler handles GET /search?q=&limit=.
func (api *API) SearchHandler(c *gin.Context) {
	start := time.Now()
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Query parameter 'q' is required",
			ErrorDetail{Field: "q", Message: "must not be empty", Code: "VALIDATION_ERROR"})
		return
	}
	limit, ok := api.limit(c)
	if !ok {
		return
	}

	results, total := collect(api.backend.Search(q), limit, func(r model.SearchResult) *model.HitInfo { return r.Info })
	c.JSON(http.StatusOK, gin.H{
		"query":   q,
		"results": results,
		"total":   total,
		"took":    time.Since(start).Milliseconds(),
	})
}

// GetByCodeHandler handles GET /codes/:code.
func (api *API) GetByCodeHandler(c *gin.Context) {
	code, ok := api.code(c)
	if !ok {
		return
	}
	addr, found := api.backend.GetByCode(code)
	if !found {
		SendAddressNotFoundError(c, code)
		return
	}
	c.JSON(http.StatusOK, newAddressResponse(addr))
}

// GetLevelHandler handles GET /codes/:code/level.
func (api *API) GetLevelHandler(c *gin.Context) {
	code, ok := api.code(c)
	if !ok {
		return
	}
	level, found := api.backend.GetLevel(code)
	if !found {
		SendError(c, http.StatusNotFound, ErrorCodeLevelNotFound, "Code '"+code+"' has no level")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "level": level})
}

func (api *API) parts(c *gin.Context, query func(string) iter.Seq[model.AddressPart]) {
	code, ok := api.code(c)
	if !ok {
		return
	}
	limit, ok := api.limit(c)
	if !ok {
		return
	}
	parts, total := collect(query(code), limit, func(p model.AddressPart) *model.HitInfo { return p.Info })
	c.JSON(http.StatusOK, gin.H{"code": code, "parts": parts, "total": total})
}

// GetByLevelHandler handles GET /codes/:code/siblings.
func (api *API) GetByLevelHandler(c *gin.Context) {
	api.parts(c, api.backend.GetByLevel)
}

// GetChildrenHandler handles GET /codes/:code/children.
func (api *API) GetChildrenHandler(c *gin.Context) {
	api.parts(c, api.backend.GetChildren)
}

// GetByIndexHandler handles GET /postal/:index.
func (api *API) GetByIndexHandler(c *gin.Context) {
	index, ok := api.postalCode(c)
	if !ok {
		return
	}
	limit, ok := api.limit(c)
	if !ok {
		return
	}
	addrs, total := collect(api.backend.GetByIndex(index), limit, func(a model.ParsedAddress) *model.HitInfo { return a.Info })
	out := make([]AddressResponse, len(addrs))
	for i, a := range addrs {
		out[i] = newAddressResponse(a)
	}
	c.JSON(http.StatusOK, gin.H{"postal_code": index, "addresses": out, "total": total})
}

// GetByIndexForSearchHandler handles GET /postal/:index/parts.
func (api *API) GetByIndexForSearchHandler(c *gin.Context) {
	index, ok := api.postalCode(c)
	if !ok {
		return
	}
	limit, ok := api.limit(c)
	if !ok {
		return
	}
	results, total := collect(api.backend.GetByIndexForSearch(index), limit, func(r model.SearchResult) *model.HitInfo { return r.Info })
	c.JSON(http.StatusOK, gin.H{"postal_code": index, "results": results, "total": total})
}

// GetReductionHandler handles GET /reductions/:level/:short.
func (api *API) GetReductionHandler(c *gin.Context) {
	level, result := ValidateLevel(c.Param("level"))
	if result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	short := c.Param("short")

	entry, found := api.backend.GetReduction(level, short)
	if !found {
		SendError(c, http.StatusNotFound, ErrorCodeReductionNotFound,
			"Reduction '"+short+"' not found on level "+strconv.Itoa(level))
		return
	}
	c.JSON(http.StatusOK, entry)
}
