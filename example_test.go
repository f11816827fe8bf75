package cachedseq_test

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/elliotnunn/cachedseq"
	"github.com/elliotnunn/cachedseq/producer"
)

// ExampleMakeCached_globFilteredPaths shows a common producer shape: a
// one-pass filter (here, a doublestar glob match) composed in front of
// MakeCached so the filtered stream can still be cheaply revisited by
// many Cursors afterward.
func ExampleMakeCached_globFilteredPaths() {
	paths := []string{
		"src/main.go",
		"src/pkg/util.go",
		"docs/readme.md",
		"src/pkg/sub/thing_test.go",
		"vendor/lib/x.go",
	}
	i := 0
	filtered := producer.NewFunc(func() (string, bool) {
		for i < len(paths) {
			p := paths[i]
			i++
			if doublestar.MatchUnvalidated("src/**/*.go", p) {
				return p, true
			}
		}
		return "", false
	})

	cur := cachedseq.MakeCached[string](filtered, 4, false)
	defer cur.Close()

	if err := cur.ForEach(func(p string) bool {
		fmt.Println(p)
		return true
	}); err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// src/main.go
	// src/pkg/util.go
	// src/pkg/sub/thing_test.go
}
