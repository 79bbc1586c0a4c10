package gemurl_test

import (
	"fmt"

	"github.com/adamwoolhether/geminer/gemurl"
)

func ExampleParse() {
	u, err := gemurl.Parse("gemini://example.com/path?query")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	host, _ := u.Host()
	query, _ := u.Query()
	fmt.Println(host.Name, host.Port, u.Path(), query)
	// Output: example.com 1965 /path query
}

func ExampleParse_bareDomain() {
	u, err := gemurl.Parse("geminiprotocol.net/docs/")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(u)
	// Output: gemini://geminiprotocol.net/docs/
}

func ExampleBuild() {
	u, err := gemurl.Build(gemurl.Config{
		Hostname: "geminiprotocol.net",
		Path:     "/docs/protocol-specification.gmi",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(u)
	// Output: gemini://geminiprotocol.net/docs/protocol-specification.gmi
}
