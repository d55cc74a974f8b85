package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	phase Phase
	name  string
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }

func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{PhaseRender, "render", &log})
	r.Register(recorder{PhaseTransform, "transform-a", &log})
	r.Register(recorder{PhaseUpdate, "script", &log})
	r.Register(recorder{PhaseTransform, "transform-b", &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"script", "transform-a", "transform-b", "render"}, log)
	assert.Equal(t, uint64(1), r.Frames())

	log = log[:0]
	r.TickPhase(PhaseTransform, time.Millisecond)
	assert.Equal(t, []string{"transform-a", "transform-b"}, log)
	assert.Equal(t, uint64(1), r.Frames())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "transform", PhaseTransform.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
