package memory

import (
	"context"
	"errors"

	"github.com/gobeaver/fluidpath"
)

// ErrNoSpace is returned when a write would exceed Config.MaxSize
var ErrNoSpace = errors.New("no space left in memory store")

func init() {
	fluidpath.RegisterStore("mem", func(ctx context.Context, cfg *fluidpath.Config) (fluidpath.ObjectStore, error) {
		return New(), nil
	})
}
