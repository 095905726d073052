package focus

import (
	"time"

	"github.com/sandeepkv93/nexusflow/internal/scheduler"
)

// EngineDriver ticks the timer from a scheduler engine.
type EngineDriver struct {
	Engine *scheduler.Engine
}

func (d EngineDriver) Every(interval time.Duration, tick func()) (Handle, error) {
	h, err := d.Engine.Schedule("focus-tick", scheduler.Interval(interval), func(time.Time) { tick() })
	if err != nil {
		return nil, err
	}
	return h, nil
}
