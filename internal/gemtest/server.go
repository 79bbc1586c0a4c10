package gemtest

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultHost is the certificate name used when none is configured.
const DefaultHost = "gemini.test"

// maxRequestLine is a 1024 byte URL plus CRLF.
const maxRequestLine = 1026

// Handler writes the raw response for a request URL.
type Handler interface {
	ServeGemini(w io.Writer, url string)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(w io.Writer, url string)

func (f HandlerFunc) ServeGemini(w io.Writer, url string) { f(w, url) }

// Respond returns a Handler that answers every request with raw.
func Respond(raw string) Handler {
	return HandlerFunc(func(w io.Writer, _ string) {
		io.WriteString(w, raw)
	})
}

// Server is a TLS Gemini server bound to a loopback port.
type Server struct {
	listener    net.Listener
	cert        tls.Certificate
	handler     Handler
	logger      *slog.Logger
	readTimeout time.Duration

	wg       sync.WaitGroup
	accepted atomic.Int64

	mu       sync.Mutex
	requests []string
}

// NewServer starts a server answering with handler.
func NewServer(handler Handler, opts ...Option) (*Server, error) {
	o := options{
		logger:      slog.Default(),
		readTimeout: 5 * time.Second,
		hosts:       []string{DefaultHost},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var cert tls.Certificate
	if o.cert != nil {
		cert = *o.cert
	} else {
		c, err := NewCertificate(o.hosts...)
		if err != nil {
			return nil, err
		}
		cert = c
	}

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return nil, fmt.Errorf("listening: %w", err)
	}

	s := Server{
		listener:    ln,
		cert:        cert,
		handler:     handler,
		logger:      o.logger,
		readTimeout: o.readTimeout,
	}

	s.wg.Add(1)
	go s.serve()

	return &s, nil
}

// Addr returns the listening address as host:port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Leaf returns the served certificate.
func (s *Server) Leaf() *x509.Certificate {
	return s.cert.Leaf
}

// Accepted returns the number of TCP connections accepted so far.
func (s *Server) Accepted() int64 {
	return s.accepted.Load()
}

// Requests returns the request URLs received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

// DialContext connects to the server whatever address is asked for. It
// lets a client use a DNS name for a loopback listener.
func (s *Server) DialContext(ctx context.Context, network, _ string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, s.Addr())
}

// Close stops accepting and waits for open connections to finish.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.wg.Wait()
	return err
}

func (s *Server) serve() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Error("gemtest accept", "error", err)
			}
			return
		}
		s.accepted.Add(1)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(s.readTimeout))

	line, err := bufio.NewReaderSize(io.LimitReader(conn, maxRequestLine), maxRequestLine).ReadString('\n')
	if err != nil {
		s.logger.Debug("gemtest read request", "error", err)
		return
	}

	url := strings.TrimSuffix(line, "\r\n")

	s.mu.Lock()
	s.requests = append(s.requests, url)
	s.mu.Unlock()

	s.logger.Debug("gemtest request", "url", url, "remote", conn.RemoteAddr().String())

	s.serveGemini(conn, url)
}

// serveGemini answers 40 if the handler panics.
func (s *Server) serveGemini(w io.Writer, url string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("gemtest handler panic", "panic", fmt.Sprint(rec), "trace", string(debug.Stack()))
			io.WriteString(w, "40 handler panic\r\n")
		}
	}()

	s.handler.ServeGemini(w, url)
}
