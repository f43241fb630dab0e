package narrative

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

// Command is a Generator that pipes each prompt to an external program on
// stdin and reads the generated text from stdout. Any LLM CLI that accepts a
// prompt on stdin works.
type Command struct {
	Path string
	Args []string
}

// ParseCommand splits a command line such as "llm -m sonnet" on whitespace.
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty narrator command")
	}
	return &Command{Path: fields[0], Args: fields[1:]}, nil
}

func (c *Command) Summary(ctx context.Context, m *model.AllMetrics) (string, error) {
	out, err := c.run(ctx, SummaryPrompt(m))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Command) Recommendations(ctx context.Context, m *model.AllMetrics) ([]string, error) {
	out, err := c.run(ctx, RecommendationsPrompt(m))
	if err != nil {
		return nil, err
	}
	var recs []string
	for _, line := range strings.Split(out, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			recs = append(recs, line)
		}
		if len(recs) == MaxRecommendations {
			break
		}
	}
	return recs, nil
}

func (c *Command) run(ctx context.Context, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("narrator %s: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
