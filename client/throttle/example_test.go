package throttle_test

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/adamwoolhether/geminer/client/throttle"
)

func ExampleNewDialer() {
	d, err := throttle.NewDialer(
		2, // dials per second
		4, // burst capacity
		func() *slog.Logger { return slog.Default() },
		&net.Dialer{},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = d

	fmt.Println("throttled dialer created")
	// Output: throttled dialer created
}
