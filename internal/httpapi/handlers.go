package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ugur10/course-store/internal/query"
	"github.com/ugur10/course-store/internal/record"
	"github.com/ugur10/course-store/internal/resource"
)

// NotFoundMessage is returned for identifiers absent from the store.
const NotFoundMessage = "The course with the given ID does not exists on the server"

// CourseHandler serves CRUD and query requests against a repository.
type CourseHandler struct {
	repo resource.Repository
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(repo resource.Repository) *CourseHandler {
	return &CourseHandler{repo: repo}
}

// List returns the courses selected by the query string, all of them by default.
func (h *CourseHandler) List(c *gin.Context) {
	q, err := parseListQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}
	h.runQuery(c, q)
}

// Query evaluates a query.Spec sent as the request body.
func (h *CourseHandler) Query(c *gin.Context) {
	var spec query.Spec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid query body: %v", err)})
		return
	}
	h.runQuery(c, query.FromSpec(spec))
}

func (h *CourseHandler) runQuery(c *gin.Context, q query.Builder) {
	if contextDone(c.Writer, c.Request.Context()) {
		return
	}
	result, err := h.repo.Query(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns a single course.
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Create validates the body and stores a new course.
func (h *CourseHandler) Create(c *gin.Context) {
	attrs, ok := readAttributes(c)
	if !ok || contextDone(c.Writer, c.Request.Context()) {
		return
	}
	rec, err := h.repo.Create(c.Request.Context(), attrs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update replaces every attribute of a course.
func (h *CourseHandler) Update(c *gin.Context) {
	h.mutate(c, h.repo.Update)
}

// Patch merges the body into a course.
func (h *CourseHandler) Patch(c *gin.Context) {
	h.mutate(c, h.repo.Patch)
}

func (h *CourseHandler) mutate(c *gin.Context, apply func(context.Context, int64, record.Attributes) (record.Record, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	attrs, ok := readAttributes(c)
	if !ok || contextDone(c.Writer, c.Request.Context()) {
		return
	}
	rec, err := apply(c.Request.Context(), id, attrs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete removes a course and returns it.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok || contextDone(c.Writer, c.Request.Context()) {
		return
	}
	rec, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func readAttributes(c *gin.Context) (record.Attributes, bool) {
	var attrs record.Attributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid JSON body: %v", err)})
		return nil, false
	}
	return attrs, true
}

// contextDone answers 408 when the client has already gone away.
func contextDone(w http.ResponseWriter, ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	w.WriteHeader(http.StatusRequestTimeout)
	return true
}

func writeError(c *gin.Context, err error) {
	var (
		validationErr *resource.ValidationError
		notFoundErr   *resource.NotFoundError
		queryErr      *query.InvalidQueryError
	)
	switch {
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": NotFoundMessage, "id": notFoundErr.ID})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
	case errors.As(err, &queryErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": queryErr.Error(), "field": queryErr.Param})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
