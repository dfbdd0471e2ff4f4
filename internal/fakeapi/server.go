// Package fakeapi is an in-memory implementation of the tracker's REST API.
// Client tests drive it through httptest and `apptrack fake-server` serves it
// for local demos. It implements the routes the client consumes and nothing
// else: no persistence, a single user, one optional bearer token.
package fakeapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/view"
)

const defaultPageSize = 20

var releaseMode sync.Once

// Server holds the fake backend's state.
type Server struct {
	mu        sync.Mutex
	apps      map[string]record.Record
	order     []string
	notes     map[string][]record.Note
	contacts  map[string][]record.Contact
	reminders map[string][]record.Reminder
	activity  map[string][]record.Activity
	user      record.User

	token    string
	bareList bool
	failNext map[string]int
	requests int
	now      func() time.Time
	log      *zap.SugaredLogger
	engine   *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithRecords seeds the application list.
func WithRecords(records ...record.Record) Option {
	return func(s *Server) {
		for _, r := range records {
			s.put(r)
		}
	}
}

// WithBareList makes GET /apps without paging parameters answer with a plain
// JSON array instead of a page object.
func WithBareList() Option {
	return func(s *Server) { s.bareList = true }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds a Server and its gin routes.
func New(opts ...Option) *Server {
	s := &Server{
		apps:      make(map[string]record.Record),
		notes:     make(map[string][]record.Note),
		contacts:  make(map[string][]record.Contact),
		reminders: make(map[string][]record.Reminder),
		activity:  make(map[string][]record.Activity),
		failNext:  make(map[string]int),
		user:      record.User{ID: "u1", Name: "Demo User", Email: "demo@example.com"},
		now:       time.Now,
		log:       logger.Named("fakeapi"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	s.log.Infow("fake backend listening", "addr", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "serve %s", addr)
	}
	return nil
}

// FailNext makes the next mutating request that targets application id
// answer with code.
func (s *Server) FailNext(id string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[id] = code
}

// Requests is the number of requests served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Record returns the stored application with id.
func (s *Server) Record(id string) (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.apps[id]
	return r, ok
}

// Delete removes an application as another session would.
func (s *Server) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
}

// SetShowArchived changes the user's archived-visibility preference.
func (s *Server) SetShowArchived(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.ShowArchivedApps = v
}

func (s *Server) routes() *gin.Engine {
	releaseMode.Do(func() { gin.SetMode(gin.ReleaseMode) })
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), s.auth())

	api := r.Group("/api")
	{
		api.GET("/apps", s.listApps)
		api.POST("/apps", s.createApp)
		api.GET("/apps/:id", s.getApp)
		api.PUT("/apps/:id", s.updateApp)
		api.DELETE("/apps/:id", s.deleteApp)
		api.PATCH("/apps/:id/status", s.updateStatus)

		api.GET("/apps/:id/notes", s.listNotes)
		api.POST("/apps/:id/notes", s.createNote)
		api.DELETE("/apps/:id/notes/:childId", s.deleteNote)

		api.GET("/apps/:id/contacts", s.listContacts)
		api.POST("/apps/:id/contacts", s.createContact)
		api.DELETE("/apps/:id/contacts/:childId", s.deleteContact)

		api.GET("/apps/:id/reminders", s.listReminders)
		api.POST("/apps/:id/reminders", s.createReminder)
		api.DELETE("/apps/:id/reminders/:childId", s.deleteReminder)
		api.GET("/reminders/due", s.dueReminders)
		api.GET("/reminders/all", s.allReminders)
		api.PATCH("/reminders/:id/complete", s.completeReminder)

		api.GET("/apps/:id/activity", s.listActivity)
		api.GET("/analytics", s.analytics)

		api.GET("/auth/me", s.me)
		api.PUT("/auth/preferences", s.updatePreferences)
	}
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		c.Next()
		s.log.Debugw("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"elapsed", time.Since(start))
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			s.fail(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

type errorBody struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func (s *Server) fail(c *gin.Context, code int, msg string) {
	c.JSON(code, errorBody{Status: code, Message: msg, Timestamp: s.now()})
}

// injected consumes a pending FailNext for id. Callers hold s.mu.
func (s *Server) injected(c *gin.Context, id string) bool {
	code, ok := s.failNext[id]
	if !ok {
		return false
	}
	delete(s.failNext, id)
	s.fail(c, code, "injected failure")
	return true
}

// put stores r, assigning id and timestamps when missing. Callers hold s.mu.
func (s *Server) put(r record.Record) record.Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	if r.Status == "" {
		r.Status = record.StatusSaved
	}
	if r.Priority == "" {
		r.Priority = record.PriorityMedium
	}
	if _, exists := s.apps[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.apps[r.ID] = r
	return r
}

func (s *Server) remove(id string) {
	delete(s.apps, id)
	delete(s.notes, id)
	delete(s.contacts, id)
	delete(s.reminders, id)
	delete(s.activity, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Server) logActivity(appID, kind, msg string) {
	s.activity[appID] = append(s.activity[appID], record.Activity{
		ID:            uuid.NewString(),
		ApplicationID: appID,
		Type:          kind,
		Message:       msg,
		CreatedAt:     s.now(),
	})
}

func (s *Server) listApps(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	criteria := view.Criteria{Query: c.Query("q")}
	if st := c.Query("status"); st != "" {
		criteria.Status = record.Status(strings.ToUpper(st))
	}
	all := make([]record.Record, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.apps[id])
	}
	filtered := view.Filter(all, criteria, true)
	filtered = withinRange(filtered, c.Query("from"), c.Query("to"))

	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("size")
	if s.bareList && !hasPage && !hasSize {
		c.JSON(http.StatusOK, filtered)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size <= 0 {
		size = defaultPageSize
	}
	if page < 0 {
		page = 0
	}
	total := len(filtered)
	start := min(page*size, total)
	end := min(start+size, total)
	c.JSON(http.StatusOK, gin.H{
		"content":       filtered[start:end],
		"totalElements": total,
		"totalPages":    (total + size - 1) / size,
		"number":        page,
		"size":          size,
	})
}

func withinRange(records []record.Record, from, to string) []record.Record {
	var lo, hi time.Time
	if from != "" {
		lo, _ = time.Parse(time.RFC3339, from)
	}
	if to != "" {
		hi, _ = time.Parse(time.RFC3339, to)
	}
	if lo.IsZero() && hi.IsZero() {
		return records
	}
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if r.DateApplied == nil {
			continue
		}
		if !lo.IsZero() && r.DateApplied.Before(lo) {
			continue
		}
		if !hi.IsZero() && r.DateApplied.After(hi) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Server) bindInput(c *gin.Context) (record.Input, bool) {
	var in record.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return in, false
	}
	if missing := in.Missing(); len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, f := range missing {
			fields[f] = "must not be blank"
		}
		c.JSON(http.StatusBadRequest, errorBody{
			Status:    http.StatusBadRequest,
			Message:   "Validation failed",
			Errors:    fields,
			Timestamp: s.now(),
		})
		return in, false
	}
	if in.Status != "" && !in.Status.Known() {
		s.fail(c, http.StatusBadRequest, "Invalid status: "+string(in.Status))
		return in, false
	}
	return in, true
}

func (s *Server) createApp(c *gin.Context) {
	in, ok := s.bindInput(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.put(record.Record{
		Company:     in.Company,
		Role:        in.Role,
		Location:    in.Location,
		Status:      in.Status,
		DateApplied: in.DateApplied,
		JobURL:      in.JobURL,
		Priority:    in.Priority,
		Archived:    in.Archived,
	})
	s.logActivity(r.ID, "CREATED", "Application created")
	c.JSON(http.StatusCreated, r)
}

func (s *Server) getApp(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.apps[c.Param("id")]
	if !ok {
		s.fail(c, http.StatusNotFound, "Application not found")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) updateApp(c *gin.Context) {
	in, ok := s.bindInput(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	r, ok := s.apps[id]
	if !ok {
		s.fail(c, http.StatusNotFound, "Application not found")
		return
	}
	if s.injected(c, id) {
		return
	}
	r.Company, r.Role, r.Location = in.Company, in.Role, in.Location
	r.DateApplied, r.JobURL, r.Archived = in.DateApplied, in.JobURL, in.Archived
	if in.Status != "" {
		r.Status = in.Status
	}
	if in.Priority != "" {
		r.Priority = in.Priority
	}
	r.UpdatedAt = s.now()
	s.apps[id] = r
	s.logActivity(id, "UPDATED", "Application updated")
	c.JSON(http.StatusOK, r)
}

func (s *Server) deleteApp(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.apps[id]; !ok {
		s.fail(c, http.StatusNotFound, "Application not found")
		return
	}
	if s.injected(c, id) {
		return
	}
	s.remove(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) updateStatus(c *gin.Context) {
	var body struct {
		Status record.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if !body.Status.Known() {
		s.fail(c, http.StatusBadRequest, "Invalid status: "+string(body.Status))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	r, ok := s.apps[id]
	if !ok {
		s.fail(c, http.StatusNotFound, "Application not found")
		return
	}
	if s.injected(c, id) {
		return
	}
	from := r.Status
	r.Status = body.Status
	r.UpdatedAt = s.now()
	s.apps[id] = r
	s.logActivity(id, "STATUS_CHANGED", "Status changed from "+string(from)+" to "+string(r.Status))
	c.JSON(http.StatusOK, r)
}

// app looks up the parent application for nested routes. Callers hold s.mu.
func (s *Server) app(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, ok := s.apps[id]; !ok {
		s.fail(c, http.StatusNotFound, "Application not found")
		return "", false
	}
	return id, true
}

func (s *Server) listNotes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.app(c); ok {
		c.JSON(http.StatusOK, nonNil(s.notes[id]))
	}
}

func (s *Server) createNote(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		s.fail(c, http.StatusBadRequest, "Note content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	n := record.Note{ID: uuid.NewString(), ApplicationID: id, Content: body.Content, CreatedAt: s.now()}
	s.notes[id] = append(s.notes[id], n)
	s.logActivity(id, "NOTE_ADDED", "Note added")
	c.JSON(http.StatusCreated, n)
}

func (s *Server) deleteNote(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	var found bool
	s.notes[id], found = without(s.notes[id], c.Param("childId"), func(n record.Note) string { return n.ID })
	s.deleted(c, found, "Note not found")
}

func (s *Server) listContacts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.app(c); ok {
		c.JSON(http.StatusOK, nonNil(s.contacts[id]))
	}
}

func (s *Server) createContact(c *gin.Context) {
	var in record.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		s.fail(c, http.StatusBadRequest, "Contact name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	ct := record.Contact{
		ID: uuid.NewString(), ApplicationID: id, Name: in.Name, Email: in.Email,
		LinkedinURL: in.LinkedinURL, Phone: in.Phone, Notes: in.Notes, CreatedAt: s.now(),
	}
	s.contacts[id] = append(s.contacts[id], ct)
	c.JSON(http.StatusCreated, ct)
}

func (s *Server) deleteContact(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	var found bool
	s.contacts[id], found = without(s.contacts[id], c.Param("childId"), func(ct record.Contact) string { return ct.ID })
	s.deleted(c, found, "Contact not found")
}

func (s *Server) listReminders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.app(c); ok {
		c.JSON(http.StatusOK, nonNil(s.reminders[id]))
	}
}

func (s *Server) createReminder(c *gin.Context) {
	var body struct {
		RemindAt time.Time `json:"remindAt"`
		Message  string    `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.RemindAt.IsZero() {
		s.fail(c, http.StatusBadRequest, "remindAt is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	rm := record.Reminder{ID: uuid.NewString(), ApplicationID: id, RemindAt: body.RemindAt, Message: body.Message, CreatedAt: s.now()}
	s.reminders[id] = append(s.reminders[id], rm)
	c.JSON(http.StatusCreated, rm)
}

func (s *Server) deleteReminder(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.app(c)
	if !ok {
		return
	}
	var found bool
	s.reminders[id], found = without(s.reminders[id], c.Param("childId"), func(r record.Reminder) string { return r.ID })
	s.deleted(c, found, "Reminder not found")
}

// everyReminder flattens reminders sorted by due time. Callers hold s.mu.
func (s *Server) everyReminder() []record.Reminder {
	var out []record.Reminder
	for _, id := range s.order {
		out = append(out, s.reminders[id]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return nonNil(out)
}

func (s *Server) dueReminders(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 0 {
		s.fail(c, http.StatusBadRequest, "days must be a non-negative integer")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(time.Duration(days) * 24 * time.Hour)
	out := []record.Reminder{}
	for _, r := range s.everyReminder() {
		if !r.Completed && !r.RemindAt.After(cutoff) {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) allReminders(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.everyReminder())
}

func (s *Server) completeReminder(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid := c.Param("id")
	for appID, list := range s.reminders {
		for i := range list {
			if list[i].ID == rid {
				list[i].Completed = true
				s.reminders[appID] = list
				c.JSON(http.StatusOK, list[i])
				return
			}
		}
	}
	s.fail(c, http.StatusNotFound, "Reminder not found")
}

func (s *Server) listActivity(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.app(c); ok {
		c.JSON(http.StatusOK, nonNil(s.activity[id]))
	}
}

func (s *Server) analytics(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]record.Record, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.apps[id])
	}
	c.JSON(http.StatusOK, view.Summarize(all, s.now()))
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.user)
}

func (s *Server) updatePreferences(c *gin.Context) {
	var p record.Preferences
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.EmailNotifications != nil {
		s.user.EmailNotifications = *p.EmailNotifications
	}
	if p.AutoArchiveOldApps != nil {
		s.user.AutoArchiveOldApps = *p.AutoArchiveOldApps
	}
	if p.ShowArchivedApps != nil {
		s.user.ShowArchivedApps = *p.ShowArchivedApps
	}
	c.JSON(http.StatusOK, s.user)
}

func (s *Server) deleted(c *gin.Context, found bool, notFound string) {
	if !found {
		s.fail(c, http.StatusNotFound, notFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func without[T any](list []T, id string, key func(T) string) ([]T, bool) {
	for i, v := range list {
		if key(v) == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
