// Package webui serves the catalog screen to browsers. Every browser gets its
// own controller session, keyed by a cookie; each action posts a form, waits
// for the session to apply it and redirects back to the page.
package webui

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockbook/internal/controller"
	"github.com/talkincode/stockbook/internal/domain"
	"go.uber.org/zap"
)

const (
	cookieName   = "stockbook"
	sessionIDKey = "sid"
)

// keepAliveInterval is how often an idle event stream gets a comment line.
var keepAliveInterval = 25 * time.Second

type Handler struct {
	manager *controller.Manager
	streams *streams
}

// Register mounts the catalog UI on e. secret signs the session cookie.
func Register(e *echo.Echo, manager *controller.Manager, secret string) *Handler {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}

	h := &Handler{manager: manager, streams: newStreams(manager.Bus())}
	e.GET("/", h.index, session.Middleware(store))
	g := e.Group("/ui", session.Middleware(store))
	g.GET("/events", h.events)
	g.POST("/add", h.openCreate)
	g.POST("/edit/:id", h.openEdit)
	g.POST("/delete/:id", h.deleteProduct)
	g.POST("/page/:n", h.selectPage)
	g.POST("/close", h.closeModal)
	g.POST("/sold", h.toggleSold)
	g.POST("/submit", h.submit)
	g.POST("/search-mode", h.switchSearchMode)
	g.POST("/search", h.search)
	return h
}

// session returns the controller session bound to the request cookie,
// opening one (and waiting for its first load) when there is none.
func (h *Handler) session(c echo.Context) (*controller.Session, error) {
	sess, err := session.Get(cookieName, c)
	if sess == nil {
		return nil, err
	}
	if err != nil {
		// a cookie signed with another secret; start over
		zap.L().Debug("discarding session cookie", zap.String("namespace", "webui"), zap.Error(err))
	}
	if id, ok := sess.Values[sessionIDKey].(string); ok {
		if s, found := h.manager.Get(id); found {
			s.Touch()
			return s, nil
		}
	}

	s, loaded := h.manager.Open()
	sess.Values[sessionIDKey] = s.ID
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, err
	}
	select {
	case <-loaded:
	case <-c.Request().Context().Done():
	}
	return s, nil
}

func (h *Handler) index(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	snap := s.Snapshot()
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.manager.Renderer().WriteHTML(c.Response(), snap.Screen)
}

// apply runs cmd on the request's session and redirects to the page.
func (h *Handler) apply(c echo.Context, cmd controller.Command) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.Do(c.Request().Context(), cmd); err != nil {
		zap.L().Warn("request ended before the command finished",
			zap.String("namespace", "webui"),
			zap.String("session", s.ID),
			zap.String("command", fmt.Sprintf("%T", cmd)),
			zap.Error(err),
		)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) openCreate(c echo.Context) error {
	return h.apply(c, controller.OpenCreate{})
}

func (h *Handler) openEdit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return h.apply(c, controller.OpenEdit{ID: id})
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return h.apply(c, controller.Delete{ID: id, Confirmed: c.FormValue("confirmed") == "1"})
}

func (h *Handler) selectPage(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	return h.apply(c, controller.SelectPage{Page: n})
}

func (h *Handler) closeModal(c echo.Context) error {
	fields, err := formFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.apply(c, controller.CloseModal{Fields: &fields})
}

func (h *Handler) toggleSold(c echo.Context) error {
	fields, err := formFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.apply(c, controller.ToggleSold{Checked: fields.IsSold, Fields: &fields})
}

func (h *Handler) submit(c echo.Context) error {
	fields, err := formFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	image, err := formImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.apply(c, controller.Submit{Fields: fields, Image: image})
}

func (h *Handler) switchSearchMode(c echo.Context) error {
	return h.apply(c, controller.SwitchSearchMode{Mode: domain.ParseSearchMode(c.FormValue("search_type"))})
}

func (h *Handler) search(c echo.Context) error {
	return h.apply(c, controller.Search{
		Query:     c.FormValue("search_query"),
		TypeQuery: c.FormValue("search_type_query"),
	})
}

// events streams one "render" message per re-render of the session.
func (h *Handler) events(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	renders, cancel, err := h.streams.watch(s.ID)
	if err != nil {
		return err
	}
	defer cancel()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-renders:
			if _, err := fmt.Fprint(w, "data: render\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			s.Touch()
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
