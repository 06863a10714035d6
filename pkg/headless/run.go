package headless

import (
	"context"
	"fmt"
	"io"
)

// RunScenario replays the scenario file at path, writing the transcript
// to w. This is the entry point of the replay command.
func RunScenario(ctx context.Context, path string, w io.Writer) error {
	s, err := LoadScenario(path)
	if err != nil {
		return err
	}
	return Replay(ctx, s, w)
}

// Replay runs s against a fresh list driven by a manual clock
func Replay(ctx context.Context, s *Scenario, w io.Writer) error {
	r := newRunner(s, NewOutput(w))
	defer r.cleanup()

	if err := r.run(ctx); err != nil {
		r.out.Error(err.Error())
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}
