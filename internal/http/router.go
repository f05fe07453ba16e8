package http

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hirelane/internal/domain/user"
	"hirelane/internal/http/handlers"
	httpmw "hirelane/internal/http/middleware"
)

type RouterDependencies struct {
	JobHandler          *handlers.JobHandler
	ApplicationHandler  *handlers.ApplicationHandler
	NotificationHandler *handlers.NotificationHandler
	Identity            *httpmw.Identity
	Logger              *zap.SugaredLogger
	RequestTimeout      time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(),
		httpmw.Logging(r.deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(r.deps.Logger),
		httpmw.Timeout(r.deps.RequestTimeout),
	)
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.ListActive(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/") && strings.Count(path, "/") == 2:
			r.deps.JobHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/notifications") || strings.HasPrefix(path, "/admin") {
			protected := r.deps.Identity.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/jobs":
		httpmw.RequireRole(user.RoleRecruiter)(http.HandlerFunc(r.deps.JobHandler.Submit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/jobs/pending":
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.JobHandler.ListPending)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/admin/jobs/statistics":
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.JobHandler.Statistics)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/approve") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.JobHandler.Approve)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/reject") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.JobHandler.Reject)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/resubmit") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleRecruiter)(http.HandlerFunc(r.deps.JobHandler.Resubmit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/deactivate") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleRecruiter)(http.HandlerFunc(r.deps.JobHandler.Deactivate)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/reactivate") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleRecruiter)(http.HandlerFunc(r.deps.JobHandler.Reactivate)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/close") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleRecruiter)(http.HandlerFunc(r.deps.JobHandler.Close)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/save") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.JobHandler.Save)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasSuffix(path, "/save") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.JobHandler.Unsave)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasSuffix(path, "/applications") && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleRecruiter, user.RoleAdmin)(http.HandlerFunc(r.deps.ApplicationHandler.ListByJob)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Submit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasSuffix(path, "/status") && strings.HasPrefix(path, "/applications/"):
		httpmw.RequireRole(user.RoleRecruiter, user.RoleAdmin)(http.HandlerFunc(r.deps.ApplicationHandler.ChangeStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasSuffix(path, "/withdraw") && strings.HasPrefix(path, "/applications/"):
		httpmw.RequireRole(user.RoleApplicant)(http.HandlerFunc(r.deps.ApplicationHandler.Withdraw)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/applications/") && strings.Count(path, "/") == 2:
		httpmw.RequireRole(user.RoleAdmin)(http.HandlerFunc(r.deps.ApplicationHandler.Remove)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications":
		r.deps.NotificationHandler.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/notifications/unread-count":
		r.deps.NotificationHandler.UnreadCount(w, req)
		return
	case req.Method == http.MethodPost && path == "/notifications/read-all":
		r.deps.NotificationHandler.MarkAllRead(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasSuffix(path, "/read") && strings.HasPrefix(path, "/notifications/"):
		r.deps.NotificationHandler.MarkRead(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/notifications/") && strings.Count(path, "/") == 2:
		r.deps.NotificationHandler.Delete(w, req)
		return
	}

	http.NotFound(w, req)
}
