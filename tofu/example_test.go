package tofu_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adamwoolhether/geminer/tofu"
)

func ExampleStore_CheckAndLearn() {
	dir, err := os.MkdirTemp("", "tofu-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	store, err := tofu.Load(filepath.Join(dir, "known_hosts.json"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fp := tofu.Fingerprint([]byte("certificate der"))
	for range 2 {
		d, err := store.CheckAndLearn("example.com", fp)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(d)
	}

	d, _ := store.CheckAndLearn("example.com", tofu.Fingerprint([]byte("other")))
	fmt.Println(d)
	// Output:
	// new
	// match
	// mismatch
}
