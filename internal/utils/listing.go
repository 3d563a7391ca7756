package utils

import (
	"encoding/json"
	"strconv"

	"github.com/apiedpiper/task-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// ParseListOptions extracts the document-style query surface from request
// parameters: JSON-encoded where/sort/select plus numeric skip/limit.
// Malformed values fall back to their zero value instead of failing the
// request.
func ParseListOptions(c *gin.Context) repository.ListOptions {
	opts := repository.ListOptions{
		Where:  parseJSONObject(c.Query("where")),
		Sort:   parseFieldSpec(c.Query("sort")),
		Select: parseFieldSpec(c.Query("select")),
	}

	if v := c.Query("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Skip = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	return opts
}

// WantsCount reports whether the request asked for a count instead of
// documents.
func WantsCount(c *gin.Context) bool {
	return c.Query("count") == "true"
}

func parseJSONObject(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}

// parseFieldSpec parses a {field: 1|-1|0} document as used by sort and
// select. Non-numeric values are dropped.
func parseFieldSpec(raw string) map[string]int {
	obj := parseJSONObject(raw)
	if obj == nil {
		return nil
	}
	spec := make(map[string]int, len(obj))
	for field, value := range obj {
		if n, ok := value.(float64); ok {
			spec[field] = int(n)
		}
	}
	return spec
}
