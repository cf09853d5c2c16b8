package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ai-buddy/buddy/internal/daemon"
	"github.com/ai-buddy/buddy/internal/domain"
)

// openDaemon loads config and opens the store. Callers must Close it.
func openDaemon() (*daemon.Daemon, error) {
	return daemon.New()
}

// friendly rewrites errors the user can act on.
func friendly(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("no buddy yet, run 'buddy init' first")
	case errors.Is(err, domain.ErrAlreadyOnboarded):
		return fmt.Errorf("already set up, see 'buddy status'")
	default:
		return err
	}
}

// parseToolUsage parses one --use value: tool:usage[,usage...]:impact.
// Impact defaults to medium when omitted.
func parseToolUsage(s string) (domain.ToolUsage, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.ToolUsage{}, fmt.Errorf("invalid --use %q, want tool:usage[,usage]:impact", s)
	}

	tool, err := domain.ParseTool(parts[0])
	if err != nil {
		return domain.ToolUsage{}, err
	}

	var usages []domain.UsageType
	seen := make(map[domain.UsageType]bool)
	for _, raw := range strings.Split(parts[1], ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := domain.ParseUsageType(raw)
		if err != nil {
			return domain.ToolUsage{}, err
		}
		if !seen[u] {
			seen[u] = true
			usages = append(usages, u)
		}
	}
	if len(usages) == 0 {
		return domain.ToolUsage{}, fmt.Errorf("%s: %w", tool, domain.ErrEmptyUsageTypes)
	}

	impact := domain.ImpactMedium
	if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
		if impact, err = domain.ParseImpact(parts[2]); err != nil {
			return domain.ToolUsage{}, err
		}
	}

	return domain.ToolUsage{Tool: tool, UsageTypes: usages, Impact: impact}, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
