package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapi/internal/models"
	"taskapi/internal/storage"
)

// handleListTasks returns every stored task in id order.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// handleCreateTask inserts a new task and returns the stored record.
func (s *Server) handleCreateTask(c *gin.Context) {
	var input models.TaskCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		s.respondBindError(c, err)
		return
	}

	task, err := s.store.Create(c.Request.Context(), input)
	if err != nil {
		s.respondStoreError(c, 0, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// handleGetTask fetches a single task by id.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleUpdateTask applies a partial update. Fields absent from the
// payload keep their current value; id and created_at are ignored
// even when supplied.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		s.respondBindError(c, err)
		return
	}

	task, err := s.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		s.respondStoreError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// handleDeleteTask removes a task permanently.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.store.Delete(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondStoreError maps store failures onto HTTP statuses: unknown
// ids become 404, field constraint failures become 422.
func (s *Server) respondStoreError(c *gin.Context, id int64, err error) {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, storage.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("task with id %d not found", id)})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "field": verr.Field})
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}

// respondBindError distinguishes a wrong-typed field, which is a
// validation failure, from a body that does not parse as JSON at all.
func (s *Server) respondBindError(c *gin.Context, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("%s must be of type %s", field, typeErr.Type),
			"field": field,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
}
