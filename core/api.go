package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"net/netip"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/yaotthaha/ipsetd/adapter"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/log"
	"github.com/yaotthaha/ipsetd/option"

	"github.com/fatih/color"
	"github.com/go-chi/chi"
)

type APIServer struct {
	ctx        context.Context
	fatalClose func(error)
	logger     log.ContextLogger
	manager    adapter.SetManager
	debug      bool
	secret     string
	chiMux     *chi.Mux
	httpServer *http.Server
}

func NewAPIServer(ctx context.Context, manager adapter.SetManager, logger log.Logger, options option.APIOptions) (*APIServer, error) {
	tagLogger := log.NewTagLogger(logger, "api server")
	if clogger, isSetColorLogger := tagLogger.(log.SetColorLogger); isSetColorLogger {
		clogger.SetColor(color.FgYellow)
	}
	a := &APIServer{
		ctx:     ctx,
		logger:  log.NewContextLogger(tagLogger),
		manager: manager,
		secret:  options.Secret,
		debug:   options.Debug,
	}
	a.chiMux = a.newMux()
	if options.Listen == "" {
		return a, nil
	}
	listenAddr, err := netip.ParseAddrPort(options.Listen)
	if err != nil {
		return nil, fmt.Errorf("invalid listen address: %s", err)
	}
	a.httpServer = &http.Server{
		Addr:    listenAddr.String(),
		Handler: a.chiMux,
		BaseContext: func(_ net.Listener) context.Context {
			return a.ctx
		},
	}
	return a, nil
}

func (a *APIServer) WithFatalCloser(f func(error)) {
	a.fatalClose = f
}

// Handler returns the router served by the API server.
func (a *APIServer) Handler() http.Handler {
	return a.chiMux
}

func (a *APIServer) Start() error {
	if a.httpServer != nil {
		go func() {
			err := a.httpServer.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				a.logger.Error(fmt.Sprintf("failed to start API server: %s", err))
				if a.fatalClose != nil {
					a.fatalClose(fmt.Errorf("failed to start API server: %s", err))
				}
			}
		}()
		a.logger.Info(fmt.Sprintf("API server started at %s", a.httpServer.Addr))
	}
	return nil
}

func (a *APIServer) Close() error {
	if a.httpServer != nil {
		err := a.httpServer.Close()
		if err != nil {
			return err
		}
		a.logger.Info("api server close")
	}
	return nil
}

func (a *APIServer) newMux() *chi.Mux {
	mux := chi.NewMux()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.Route("/", func(r chi.Router) {
		if a.secret != "" {
			r.Use(a.auth)
		}
		if a.debug {
			initGoDebugHTTPHandler(r)
		}
		r.Put("/sets/{set}/{address}", a.handle(ipset.CommandAdd))
		r.Delete("/sets/{set}/{address}", a.handle(ipset.CommandDelete))
	})
	return mux
}

func (a *APIServer) handle(cmd ipset.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := log.AddContextTag(r.Context())
		setName, err := urlParam(r, "set")
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid set name: %s", err))
			return
		}
		address, err := urlParam(r, "address")
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid address: %s", err))
			return
		}
		a.logger.DebugContext(ctx, fmt.Sprintf("%s %s %s from %s", cmd, address, setName, r.RemoteAddr))
		err = a.manager.Do(ctx, cmd, setName, address)
		if err != nil {
			writeError(w, statusOf(err), err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// urlParam returns a decoded route parameter. chi matches on the raw path
// only when it differs from the decoded one.
func urlParam(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ipset.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, ipset.ErrExecute):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(errorResponse{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func (a *APIServer) auth(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		bearer, token, ok := strings.Cut(authHeader, " ")
		if !ok || bearer != "Bearer" || token != a.secret {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func initGoDebugHTTPHandler(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/gc", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
			go debug.FreeOSMemory()
		})
		r.HandleFunc("/pprof", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/debug/pprof/", http.StatusMovedPermanently)
		})
		r.HandleFunc("/pprof/*", pprof.Index)
		r.HandleFunc("/pprof/cmdline", pprof.Cmdline)
		r.HandleFunc("/pprof/profile", pprof.Profile)
		r.HandleFunc("/pprof/symbol", pprof.Symbol)
		r.HandleFunc("/pprof/trace", pprof.Trace)
	})
}
