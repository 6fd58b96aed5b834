package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

// LiveQueries resolves an operation name to an observable query.
type LiveQueries interface {
	Query(op string, params url.Values, viewer *model.User) (live.Query, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, q live.Query) *live.Subscription
}

type LiveHandler struct {
	queries   LiveQueries
	hub       Subscriber
	heartbeat time.Duration
}

func NewLiveHandler(queries LiveQueries, hub Subscriber, heartbeat time.Duration) *LiveHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &LiveHandler{queries: queries, hub: hub, heartbeat: heartbeat}
}

type liveEvent struct {
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg,omitempty"`
	At   time.Time   `json:"at"`
}

// Subscribe godoc
//
//	@Summary		Live query
//	@Description	Stream the result of a query as Server-Sent Events. An "update" event carries the current result and is sent again after every change to the data it reads. Failed evaluations are sent as "error" events.
//	@Tags			live
//	@Produce		text/event-stream
//	@Param			op			path	string	true	"Operation"	Enums(projects.list, projects.get, projects.stats, projects.published, offers.list, reviews.list)
//	@Param			project_id	query	string	false	"Project ID for per-project operations"
//	@Param			search		query	string	false	"projects.list search"
//	@Param			filter		query	string	false	"projects.list filter"
//	@Param			favorites	query	boolean	false	"projects.list favorites only"
//	@Success		200	{string}	string	"event stream"
//	@Router			/live/{op} [get]
func (h *LiveHandler) Subscribe(c *gin.Context) {
	q, err := h.queries.Query(c.Param("op"), c.Request.URL.Query(), viewer(c))
	if err != nil {
		handleErr(c, err)
		return
	}

	sub := h.hub.Subscribe(c.Request.Context(), q)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	// commit the headers before the first SSEvent rewrites Content-Type
	c.Writer.WriteHeaderNow()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		case u, ok := <-sub.Updates():
			if !ok {
				return false
			}
			name, payload := encodeUpdate(u)
			c.SSEvent(name, payload)
			return true
		}
	})
}

func encodeUpdate(u live.Update) (string, string) {
	name, ev := "update", liveEvent{Data: u.Value, At: u.At}
	if u.Err != nil {
		name, ev = "error", liveEvent{Msg: publicMessage(u.Err), At: u.At}
	}
	b, err := sonic.Marshal(ev)
	if err != nil {
		b, _ = sonic.Marshal(liveEvent{Msg: "encoding error", At: u.At})
		return "error", string(b)
	}
	return name, string(b)
}

// publicMessage hides internal errors from stream clients.
func publicMessage(err error) string {
	var e *service.Error
	var gate *service.PublishGateError
	if errors.As(err, &e) || errors.As(err, &gate) {
		return err.Error()
	}
	return "internal error"
}
