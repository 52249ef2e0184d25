package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/alfagnish/exchange-api/internal/models"
)

const welcomeMessage = "Welcome to the Person/Address API."

// SystemHandler serves the welcome message and the health check.
type SystemHandler struct {
	logger  *zap.Logger
	now     func() time.Time
	resolve func(ctx context.Context) (string, error)
}

// NewSystemHandler creates a SystemHandler that reports the address the
// host name resolves to.
func NewSystemHandler(logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{
		logger:  logger,
		now:     time.Now,
		resolve: hostIP,
	}
}

// Routes registers the root and health routes on the given chi router.
func (h *SystemHandler) Routes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/health/{path_echo}", h.Health)
}

// Root returns the welcome message.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

// Health reports liveness and echoes the optional "echo" query parameter and
// path segment.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ip, err := h.resolve(r.Context())
	if err != nil {
		h.logger.Error("resolve host address", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	health := models.Health{
		Status:        http.StatusOK,
		StatusMessage: "OK",
		Timestamp:     h.now().UTC().Format("2006-01-02T15:04:05.000000") + "Z",
		IPAddress:     ip,
	}
	if q := r.URL.Query(); q.Has("echo") {
		echo := q.Get("echo")
		health.Echo = &echo
	}
	if p := chi.URLParam(r, "path_echo"); p != "" {
		health.PathEcho = &p
	}
	writeJSON(w, http.StatusOK, health)
}

// hostIP resolves the machine's host name, preferring an IPv4 address.
func hostIP(ctx context.Context) (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, name)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", name, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("lookup %s: no addresses", name)
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}
