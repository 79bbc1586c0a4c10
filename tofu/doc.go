// Package tofu pins Gemini server certificates on first use.
//
// A [Store] maps hostnames to the SHA-256 fingerprint of the leaf
// certificate first seen for them and persists the map to a single file.
// The file's extension picks the encoding:
//
//	.json          {"path": "...", "known_hosts": {"example.com": "ab12..."}}
//	.yaml, .yml    path: ...
//	               known_hosts:
//	                 example.com: ab12...
//	.toml          path = "..."
//	               [known_hosts]
//	               "example.com" = "ab12..."
//
// Every learned host rewrites the whole file through a temp file and a
// rename, so a crash never leaves a partial store behind.
//
// A [Verifier] plugs the store into crypto/tls. Chain validation is
// skipped: trust comes from the pinned fingerprint alone.
//
//	v, err := tofu.NewVerifier(store)
//	conn, err := tls.Dial("tcp", "example.com:1965", v.TLSConfig("example.com"))
package tofu
