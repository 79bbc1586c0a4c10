// Package client sends Gemini requests over TLS.
//
// # Building a Client
//
// Use [Build] with functional options. A trust store is required; server
// certificates are pinned in it on first use:
//
//	c, err := client.Build(
//		client.WithKnownHosts("/home/me/.geminer/known_hosts.json"),
//		client.WithTimeout(10 * time.Second),
//	)
//
// # Making Requests
//
// [Client.Get] parses a URL and sends it. For a URL built with
// [gemurl.Build], create a [Request] and call [Client.Do]:
//
//	resp, err := c.Get(ctx, "gemini://geminiprotocol.net/")
//	switch r := resp.(type) {
//	case response.Success:
//		fmt.Print(r.Body)
//	case response.Redirect:
//		// not followed
//	}
//
// # Errors
//
// Every failure is an [*Error]. Its Kind tells transport failures
// ([ErrTransport]) apart from trust failures ([ErrUntrusted]) and
// unparseable responses ([ErrMalformedResponse]); errors.Is also matches
// the underlying cause such as [tofu.ErrMismatch].
//
// # Tracing
//
// Each request runs in a "gemini.request" span with "gemini.dial" and
// "gemini.handshake" children. The span's trace ID, or a random UUID when
// tracing is off, is logged as request_id.
package client
