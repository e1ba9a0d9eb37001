package forms

import (
	"context"
	"errors"
	"sync"

	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// Mode selects between creating and editing an entity.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

// Content is the copy shown around a form.
type Content struct {
	Title      string
	Subtitle   string
	SubmitText string
	SubmitIcon string
}

// guard makes Submit a no-op while a submission is in flight.
type guard struct {
	mu         sync.Mutex
	submitting bool
}

func (g *guard) Submitting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.submitting
}

func (g *guard) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.submitting {
		return false
	}

	g.submitting = true

	return true
}

func (g *guard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.submitting = false
}

var (
	errBusy    = errors.New("submission already in flight")
	errInvalid = errors.New("form is invalid")
)

// run holds the guard while validate and fn execute. A busy guard returns
// errBusy before validate runs, so the form is left untouched. fn only runs
// when validate passes; its errors are logged and returned.
func (g *guard) run(ctx context.Context, validate func() bool, logger admin.Logger, form string, fn func(context.Context) error) error {
	if !g.acquire() {
		return errBusy
	}
	defer g.release()

	if !validate() {
		return errInvalid
	}

	err := fn(ctx)
	if err != nil && logger != nil {
		logger.Error("form submission failed", map[string]interface{}{
			"form":  form,
			"error": err.Error(),
		})
	}

	return err
}

// submitResult maps a run error onto the form's SubmitErr and reports
// success. A busy guard leaves submitErr alone.
func submitResult(err error, submitErr *string, fallback string) bool {
	switch {
	case errors.Is(err, errBusy):
		return false
	case errors.Is(err, errInvalid):
		*submitErr = ""

		return false
	case err != nil:
		*submitErr = admin.ErrorMessage(err, fallback)

		return false
	default:
		*submitErr = ""

		return true
	}
}
