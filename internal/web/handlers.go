package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

const (
	maxTextSize = 4 << 10 // 4KB
	// maxBodySize leaves room for the JSON or form encoding around the text.
	maxBodySize = maxTextSize + 1<<10
)

const (
	msgTooLong       = "Task text is too long (4KB max)."
	msgEditCompleted = "Completed tasks cannot be edited."
)

type textRequest struct {
	Text string `json:"text"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func bindText(c *gin.Context) (string, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return "", false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return "", false
	}
	if len(req.Text) > maxTextSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "text exceeds maximum size of 4KB"})
		return "", false
	}
	return req.Text, true
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func nonNil(ts []model.Task) []model.Task {
	if ts == nil {
		return []model.Task{}
	}
	return ts
}

// API handlers

func (s *Server) handleAPIList(c *gin.Context) {
	pending, completed := model.Split(s.store.Tasks())
	c.JSON(http.StatusOK, gin.H{
		"pending":   nonNil(pending),
		"completed": nonNil(completed),
	})
}

func (s *Server) handleAPIGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, found := s.store.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) handleAPIAdd(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	var t model.Task
	msgs, err := s.mutate(func() (err error) {
		t, err = s.store.Add(c.Request.Context(), text)
		return err
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "notifications": msgs})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": t, "notifications": msgs})
}

func (s *Server) handleAPIEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	text, ok := bindText(c)
	if !ok {
		return
	}
	var t model.Task
	msgs, err := s.mutate(func() (err error) {
		t, err = s.store.Edit(c.Request.Context(), id, text)
		return err
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "notifications": msgs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "notifications": msgs})
}

func (s *Server) handleAPIComplete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var t model.Task
	msgs, err := s.mutate(func() (err error) {
		t, err = s.store.Complete(c.Request.Context(), id)
		return err
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "notifications": msgs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t, "notifications": msgs})
}

func (s *Server) handleAPIDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	msgs, err := s.mutate(func() error {
		return s.store.Delete(c.Request.Context(), id)
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "notifications": msgs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": msgs})
}

// Web handlers. Each form posts, then redirects back to the index with the
// last notification in ?msg= so a reload does not repeat the action.

func (s *Server) handleIndex(c *gin.Context) {
	pending, completed := model.Split(s.store.Tasks())
	data := gin.H{
		"pending":   pending,
		"completed": completed,
		"msg":       c.Query("msg"),
	}
	if id, err := strconv.ParseInt(c.Query("edit"), 10, 64); err == nil {
		if t, ok := s.store.Get(id); ok && !t.Completed {
			data["editing"] = t
		}
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) redirect(c *gin.Context, msgs []string) {
	target := "/"
	if len(msgs) > 0 {
		target += "?msg=" + url.QueryEscape(msgs[len(msgs)-1])
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) formError(c *gin.Context, msgs []string, err error) {
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	s.redirect(c, msgs)
}

// formText reads the posted text field. On failure it has already
// redirected back to the index with a message.
func (s *Server) formText(c *gin.Context) (string, bool) {
	if err := c.Request.ParseForm(); err != nil {
		if tooLarge(err) {
			s.redirect(c, []string{msgTooLong})
		} else {
			s.redirect(c, []string{"invalid form"})
		}
		return "", false
	}
	text := c.Request.PostForm.Get("text")
	if len(text) > maxTextSize {
		s.redirect(c, []string{msgTooLong})
		return "", false
	}
	return text, true
}

func (s *Server) handleFormAdd(c *gin.Context) {
	text, ok := s.formText(c)
	if !ok {
		return
	}
	msgs, err := s.mutate(func() error {
		_, err := s.store.Add(c.Request.Context(), text)
		return err
	})
	if err != nil {
		s.formError(c, msgs, err)
		return
	}
	s.redirect(c, msgs)
}

func (s *Server) handleFormEdit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.redirect(c, []string{"invalid task id"})
		return
	}
	text, ok := s.formText(c)
	if !ok {
		return
	}
	completed := false
	msgs, err := s.mutate(func() error {
		if t, found := s.store.Get(id); found && t.Completed {
			completed = true
			return nil
		}
		_, err := s.store.Edit(c.Request.Context(), id, text)
		return err
	})
	if completed {
		s.redirect(c, []string{msgEditCompleted})
		return
	}
	if err != nil {
		s.formError(c, msgs, err)
		return
	}
	s.redirect(c, msgs)
}

func (s *Server) handleFormComplete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.redirect(c, []string{"invalid task id"})
		return
	}
	msgs, err := s.mutate(func() error {
		_, err := s.store.Complete(c.Request.Context(), id)
		return err
	})
	if err != nil {
		s.formError(c, msgs, err)
		return
	}
	s.redirect(c, msgs)
}

func (s *Server) handleFormDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.redirect(c, []string{"invalid task id"})
		return
	}
	msgs, err := s.mutate(func() error {
		return s.store.Delete(c.Request.Context(), id)
	})
	if err != nil {
		s.formError(c, msgs, err)
		return
	}
	s.redirect(c, msgs)
}
