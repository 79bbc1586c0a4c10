package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/geminer/client/throttle"
	"github.com/adamwoolhether/geminer/gemurl"
	"github.com/adamwoolhether/geminer/response"
	"github.com/adamwoolhether/geminer/tofu"
)

// Client sends Gemini requests over TLS, trusting servers on first use.
// It is safe for concurrent use.
type Client struct {
	logger          *slog.Logger
	tracer          trace.Tracer
	timeout         time.Duration
	dialer          throttle.Dialer
	store           *tofu.Store
	verifier        *tofu.Verifier
	maxResponseSize int64
}

// Build creates a Client. A trust store must be supplied with
// [WithKnownHosts] or [WithTrustStore].
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer("no-op tracer"),
		dialer: &net.Dialer{},
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}
	if opts.timeout != nil {
		client.timeout = *opts.timeout
	}
	if opts.dialer != nil {
		client.dialer = opts.dialer
	}
	client.maxResponseSize = opts.maxResponseSize

	switch {
	case opts.store != nil:
		client.store = opts.store
	case opts.knownHosts != "":
		store, err := tofu.Load(opts.knownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known hosts: %w", err)
		}
		client.store = store
	default:
		return nil, errors.New("a trust store is required: use WithKnownHosts or WithTrustStore")
	}

	verifier, err := tofu.NewVerifier(client.store, tofu.WithLogger(client.logger))
	if err != nil {
		return nil, fmt.Errorf("configuring verifier: %w", err)
	}
	client.verifier = verifier

	if opts.throttle != nil {
		d, err := throttle.NewDialer(opts.throttle.rps, opts.throttle.burst, func() *slog.Logger { return client.logger }, client.dialer)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		client.dialer = d
	}

	return client, nil
}

// TrustStore returns the store the client pins certificates in.
func (c *Client) TrustStore() *tofu.Store {
	return c.store
}

// Get parses rawURL and sends it with [Client.Do].
func (c *Client) Get(ctx context.Context, rawURL string) (response.Response, error) {
	u, err := gemurl.Parse(rawURL)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidURL, Err: err}
	}

	req, err := NewRequest(u)
	if err != nil {
		return nil, err
	}

	return c.Do(ctx, req)
}

// Do sends req and returns the parsed response. Redirects are returned,
// never followed. Every error is an [*Error].
func (c *Client) Do(ctx context.Context, req *Request) (response.Response, error) {
	if req == nil || req.line == "" {
		return nil, &Error{Kind: ErrNoHost, Detail: "empty request"}
	}

	ctx, span := c.tracer.Start(ctx, "gemini.request")
	defer span.End()

	span.SetAttributes(
		attribute.String("host", req.host.Name),
		attribute.Int("port", int(req.host.Port)),
	)

	requestID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		requestID = uuid.New().String()
	}

	v := Values{
		RequestID: requestID,
		Start:     time.Now().UTC(),
		Tracer:    c.tracer,
	}
	ctx = setValues(ctx, &v)

	log := c.logger.With("request_id", requestID, "host", req.host.Name)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.exec(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("gemini request", "url", req.line, "error", err, "took", time.Since(v.Start).String())
		return nil, err
	}

	setStatus(ctx, resp.Status())
	span.SetAttributes(attribute.Int("status", int(resp.Status())))

	log.Info("gemini request", "url", req.line, "status", resp.Status().String(), "took", time.Since(v.Start).String())
	if r, ok := resp.(response.Redirect); ok {
		log.Info("redirect not followed", "target", r.URL)
	}

	return resp, nil
}

// exec dials, completes the handshake, writes the request line and reads
// the response until the server closes the connection.
func (c *Client) exec(ctx context.Context, req *Request) (response.Response, error) {
	host := req.host.Name

	conn, err := c.dial(ctx, req)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// Unblock reads and writes when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := io.WriteString(conn, req.String()); err != nil {
		return nil, &Error{Kind: ErrTransport, Host: host, Detail: "writing request", Err: contextCause(ctx, err)}
	}

	raw, err := c.read(conn)
	if err != nil {
		if errors.Is(err, ErrResponseTooLarge) {
			return nil, &Error{Kind: ErrResponseTooLarge, Host: host, Detail: fmt.Sprintf("limit %d bytes", c.maxResponseSize)}
		}
		return nil, &Error{Kind: ErrTransport, Host: host, Detail: "reading response", Err: contextCause(ctx, err)}
	}

	resp, err := response.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: ErrMalformedResponse, Host: host, Err: err}
	}

	return resp, nil
}

func (c *Client) dial(ctx context.Context, req *Request) (*tls.Conn, error) {
	host := req.host.Name

	dialCtx, span := AddSpan(ctx, "gemini.dial", attribute.String("addr", req.addr()))
	raw, err := c.dialer.DialContext(dialCtx, "tcp", req.addr())
	span.End()
	if err != nil {
		return nil, &Error{Kind: ErrTransport, Host: host, Detail: "dialing " + req.addr(), Err: err}
	}

	conn := tls.Client(raw, c.verifier.TLSConfig(host))

	hsCtx, span := AddSpan(ctx, "gemini.handshake")
	err = conn.HandshakeContext(hsCtx)
	span.End()
	if err != nil {
		raw.Close()
		if isTrustErr(err) {
			return nil, &Error{Kind: ErrUntrusted, Host: host, Err: err}
		}
		return nil, &Error{Kind: ErrTransport, Host: host, Detail: "tls handshake", Err: err}
	}

	return conn, nil
}

// read consumes the connection until EOF. Servers that close without a
// TLS close_notify end the body with io.ErrUnexpectedEOF, which counts as
// a normal end.
func (c *Client) read(conn io.Reader) ([]byte, error) {
	r := conn
	if c.maxResponseSize > 0 {
		r = io.LimitReader(conn, c.maxResponseSize+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	if c.maxResponseSize > 0 && int64(len(raw)) > c.maxResponseSize {
		return nil, ErrResponseTooLarge
	}

	return raw, nil
}

func isTrustErr(err error) bool {
	for _, target := range []error{
		tofu.ErrMismatch,
		tofu.ErrInvalidIdentity,
		tofu.ErrInvalidFingerprint,
		tofu.ErrUnsupportedKey,
		tofu.ErrNoCertificate,
		tofu.ErrPersist,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// contextCause prefers the context error over the deadline error it
// triggered on the connection.
func contextCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}
