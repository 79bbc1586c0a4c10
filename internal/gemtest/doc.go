// Package gemtest runs an in-process Gemini server over TLS for tests.
//
// The server listens on a loopback port with a self-signed certificate
// and answers every request through a [Handler]:
//
//	srv, err := gemtest.NewServer(gemtest.Respond("20 text/gemini\r\n# hi\n"))
//	if err != nil {
//		t.Fatal(err)
//	}
//	defer srv.Close()
//
// Certificates are pinned by hostname, so clients should address the
// server by a DNS name and route the dial with [Server.DialContext].
package gemtest
