package task

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// runGroup collapses concurrent identical run requests. If the same task
// selection is already running, later callers wait for it and receive the
// same result.
type runGroup struct {
	group singleflight.Group
}

// Do runs fn once per in-flight key selection. shared reports whether the
// result was handed to more than one caller.
func (d *runGroup) Do(keys []string, fn func() (*BatchResult, error)) (*BatchResult, bool, error) {
	v, err, shared := d.group.Do(dedupKey(keys), func() (any, error) {
		return fn()
	})
	res, _ := v.(*BatchResult)
	return res, shared, err
}

// dedupKey computes a deterministic key from a task selection. Order is
// significant since it is the run order.
func dedupKey(keys []string) string {
	if len(keys) == 0 {
		keys = []string{}
	}
	b, _ := json.Marshal(keys)
	h := sha256.Sum256(b)
	return fmt.Sprintf("%x", h)
}
