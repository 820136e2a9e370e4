package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/store"
	"github.com/dori/slowly/internal/views"
	"github.com/gin-gonic/gin"
)

const maxTextSize = 4 << 10 // 4KB

type bucketJSON struct {
	Key   string       `json:"key"`
	Title string       `json:"title"`
	Color model.Color  `json:"color,omitempty"`
	Tasks []model.Task `json:"tasks"`
}

type dashboardJSON struct {
	Inbox   []model.Task `json:"inbox"`
	Buckets []bucketJSON `json:"buckets"`
}

type recordJSON struct {
	Kind     views.RecordKind `json:"kind"`
	Task     model.Task       `json:"task"`
	Subtasks []model.Subtask  `json:"subtasks,omitempty"`
	SortTime time.Time        `json:"sortTime"`
}

type dayJSON struct {
	Date          string       `json:"date"`
	Completed     int          `json:"completed"`
	ActualMinutes int          `json:"actualMinutes"`
	Records       []recordJSON `json:"records"`
}

type createTaskRequest struct {
	Text string `json:"text" binding:"required"`
}

type completeRequest struct {
	ActualTime int    `json:"actualTime"`
	Reflection string `json:"reflection"`
}

func (s *Server) handleDashboard(c *gin.Context) {
	d := s.app.Dashboard()

	out := dashboardJSON{Inbox: d.Inbox, Buckets: []bucketJSON{}}
	if out.Inbox == nil {
		out.Inbox = []model.Task{}
	}
	for _, b := range d.Buckets {
		out.Buckets = append(out.Buckets, bucketJSON{
			Key:   b.Key,
			Title: b.Title(),
			Color: b.Tag.Color,
			Tasks: b.Tasks,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    out,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	days := s.app.History()

	out := make([]dayJSON, 0, len(days))
	for _, d := range days {
		day := dayJSON{
			Date:          d.Date,
			Completed:     d.Completed(),
			ActualMinutes: d.ActualMinutes(),
		}
		for _, r := range d.Records {
			day.Records = append(day.Records, recordJSON{
				Kind:     r.Kind,
				Task:     r.Task,
				Subtasks: r.Subtasks,
				SortTime: r.SortTime,
			})
		}
		out = append(out, day)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"empty":   len(out) == 0,
		"data":    out,
	})
}

func (s *Server) handleQuote(c *gin.Context) {
	q := s.app.RefreshQuote()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":    q.ID,
			"text":  q.Text,
			"index": s.app.Quotes.Index(),
			"mode":  s.app.Quotes.Mode(),
		},
	})
}

func (s *Server) handleTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    s.app.Mirror.EffectiveTags(),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if len(req.Text) > maxTextSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "text exceeds maximum size of 4KB",
		})
		return
	}

	id, err := s.app.QuickAdd(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")

	cancelled, err := s.app.DeleteTask(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"draftsCancelled": cancelled,
	})
}

func (s *Server) handleComplete(c *gin.Context) {
	var req completeRequest
	// An empty body completes with no retrospective
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
	}
	if len(req.Reflection) > maxTextSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "reflection exceeds maximum size of 4KB",
		})
		return
	}

	ev, err := s.app.CompleteNow(c.Request.Context(), c.Param("id"), c.Param("sid"), req.ActualTime, req.Reflection)
	if err != nil {
		s.fail(c, err)
		return
	}
	if ev == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   app.ErrNotCompletable.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"kind":            ev.Kind,
			"title":           ev.Title,
			"parentCompleted": ev.ParentCompleted,
			"completedAt":     ev.CompletedAt,
		},
	})
}

// fail maps an application error onto a status code
func (s *Server) fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotCompletable), errors.Is(err, completion.ErrNoDraft):
		return http.StatusConflict
	case errors.Is(err, app.ErrPersist):
		return http.StatusBadGateway
	case isValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func isValidation(err error) bool {
	for _, target := range []error{
		model.ErrEmptyTitle, model.ErrTagRequired, model.ErrUnknownTag, model.ErrEmptyName,
		model.ErrEmptyQuote, model.ErrBadEnergy, model.ErrBadDuration, model.ErrInvalidIndex,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
