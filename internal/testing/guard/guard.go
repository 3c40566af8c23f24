package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("TRUSTHUB_TEST_MODE") == "" {
			_ = os.Setenv("TRUSTHUB_TEST_MODE", "1")
		}
	})
}
