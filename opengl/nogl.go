//go:build nogl

package opengl

import (
	"fmt"
	"os"
	"time"

	"github.com/PrincetonUniversity/braitenberg"
	"github.com/PrincetonUniversity/braitenberg/pointer"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Title    string
	Period   time.Duration
	Scenario string
	Pointer  pointer.Config
	Paused   bool
	Meter    metric.Meter
	Logger   zerolog.Logger
}

// Run returns an error explaining that OpenGL support is disabled.
func Run(w *braitenberg.World, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
