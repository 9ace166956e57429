// Package oauth runs the loopback redirect endpoint used by `auth login`
// and opens the operator's browser on the consent page.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// ErrStateMismatch is returned when the redirect carries a foreign state.
var ErrStateMismatch = errors.New("oauth: state mismatch")

// CallbackServer receives the authorization code on a loopback address.
type CallbackServer struct {
	mu            sync.Mutex
	redirect      *url.URL
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer prepares a server for redirectURL, which must be an
// http URL on a loopback host. Port 0 picks a free port at Start.
func NewCallbackServer(redirectURL string) (*CallbackServer, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return nil, fmt.Errorf("parse redirect url: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("redirect url %q: loopback callback requires http", redirectURL)
	}
	if !isLoopback(u.Hostname()) {
		return nil, fmt.Errorf("redirect url %q: host must be localhost or a loopback address", redirectURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &CallbackServer{
		redirect: u,
		codeChan: make(chan string, 1),
		errChan:  make(chan error, 1),
	}, nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Start listens on the redirect's port and serves in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	router := chi.NewRouter()
	router.Get(s.redirect.Path, s.handleCallback)

	s.server = &http.Server{
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	port := s.redirect.Port()
	if port == "" {
		port = "80"
	}
	addr := net.JoinHostPort("127.0.0.1", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Port 0 resolves to whatever the kernel picked.
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.redirect.Host = net.JoinHostPort(s.redirect.Hostname(), fmt.Sprint(tcpAddr.Port))
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()
	return nil
}

// ExpectState sets the state the redirect must carry. Callbacks are
// rejected until it is set.
func (s *CallbackServer) ExpectState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedState = state
}

func (s *CallbackServer) stateMatches(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expectedState != "" && state == s.expectedState
}

func (s *CallbackServer) fail(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		s.fail(fmt.Errorf("oauth error: %s - %s", errParam, desc))
		fmt.Fprint(w, resultHTML("Authorization failed", errParam+" "+desc))
		return
	}

	if state := q.Get("state"); !s.stateMatches(state) {
		s.fail(fmt.Errorf("%w: got %q", ErrStateMismatch, state))
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultHTML("Authorization failed", "Invalid state parameter."))
		return
	}

	code := q.Get("code")
	if code == "" {
		s.fail(errors.New("no authorization code received"))
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, resultHTML("Authorization failed", "No code received."))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	fmt.Fprint(w, resultHTML("Authorization successful", "You can close this window and return to the terminal."))
}

// WaitForCode blocks until a code or an error arrives, or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the server. Safe to call more than once.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// RedirectURL returns the redirect to register with the consent request.
// After Start it carries the bound port.
func (s *CallbackServer) RedirectURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redirect.String()
}

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>tinatools - {{.Title}}</title>
</head>
<body style="font-family: system-ui, sans-serif; text-align: center; margin-top: 20vh; color: #333F50">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

func resultHTML(title, message string) string {
	var b strings.Builder
	_ = resultPage.Execute(&b, struct{ Title, Message string }{title, message})
	return b.String()
}

// OpenBrowser opens the default browser at url.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
