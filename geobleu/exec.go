package geobleu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/Noofbiz/humob/datasets"
)

// ErrScorer is wrapped by every failure reported by an external scorer.
var ErrScorer = errors.New("external scorer failed")

// Exec delegates scoring to an external program. The program receives
//
//	{"prediction": [[d,t,x,y], ...], "truth": [[d,t,x,y], ...]}
//
// on stdin and must print {"score": f} or {"error": "..."} on stdout.
type Exec struct {
	Command string
	Args    []string
	// Env is appended to the current environment.
	Env []string
	// Timeout bounds a single call; 0 means no limit.
	Timeout time.Duration
}

type execRequest struct {
	Prediction [][4]int `json:"prediction"`
	Truth      [][4]int `json:"truth"`
}

type execResponse struct {
	Score *float64 `json:"score"`
	Error string   `json:"error"`
}

func tuples(events []datasets.Event) [][4]int {
	out := make([][4]int, len(events))
	for i, e := range events {
		out[i] = e.Tuple()
	}
	return out
}

// Score runs the external program once for the pair.
func (e *Exec) Score(pred, truth []datasets.Event) (float64, error) {
	if e.Command == "" {
		return 0, fmt.Errorf("%w: no command configured", ErrScorer)
	}
	payload, err := json.Marshal(execRequest{Prediction: tuples(pred), Truth: tuples(truth)})
	if err != nil {
		return 0, fmt.Errorf("encode scorer request: %w", err)
	}

	ctx := context.Background()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.Command, e.Args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return 0, fmt.Errorf("%w: %s: %v, output: %s%s", ErrScorer, e.Command, err, stdout.String(), stderr.String())
	}

	var resp execResponse
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return 0, fmt.Errorf("%w: malformed output %q: %v", ErrScorer, stdout.String(), err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrScorer, resp.Error)
	}
	if resp.Score == nil {
		return 0, fmt.Errorf("%w: output has no score: %q", ErrScorer, stdout.String())
	}
	return *resp.Score, nil
}
