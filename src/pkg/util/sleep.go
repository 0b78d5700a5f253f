package util

import (
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// WaitForSeconds blocks for the given number of seconds, logging the pause.
// Used between dependent API calls (e.g. polling a long-running response)
// to avoid hammering a rate limit.
func WaitForSeconds(seconds float64) {
	tl.Log(tl.Debug1, palette.PurpleDim, "Waiting %s seconds", seconds)
	time.Sleep(time.Duration(seconds * float64(time.Second)))
}
