package engine

import (
	"fmt"
	"time"

	"github.com/chazu/sliceform/pkg/model"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	models []model.Model
	errors []EvalError
	err    error
}

func (e *Engine) current() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.generation
}

// wait blocks until evaluation gen reports on ch or the engine timeout
// passes. A run that times out keeps going in its goroutine; whatever it
// sends later is dropped with the channel.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) ([]model.Model, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if cur := e.current(); cur != gen {
			return nil, nil, fmt.Errorf("evaluation %d superseded by %d", gen, cur)
		}

		return res.models, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", e.timeout)
	}
}
