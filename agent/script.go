package agent

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/sentinel/behavior"
)

const (
	scriptResultVar = "result"
	scriptSolvedVar = "first_solved"
)

var scriptIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ScriptCondition evaluates a tengo script each tick. The script sees
// first_solved plus the listed blackboard keys as globals and must assign a
// bool to result.
type ScriptCondition struct {
	name     string
	compiled *tengo.Compiled
	keys     []string
	bb       *behavior.Blackboard
	flags    MissionFlags
	logger   *slog.Logger
}

func NewScriptCondition(name string, src []byte, bb *behavior.Blackboard, flags MissionFlags, keys []string, logger *slog.Logger) (*ScriptCondition, error) {
	if logger == nil {
		logger = slog.Default()
	}
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := script.Add(scriptSolvedVar, false); err != nil {
		return nil, fmt.Errorf("agent: script %s: %w", name, err)
	}
	for _, k := range keys {
		if !scriptIdent.MatchString(k) {
			return nil, fmt.Errorf("agent: script %s: blackboard key %q is not a valid identifier", name, k)
		}
		if err := script.Add(k, nil); err != nil {
			return nil, fmt.Errorf("agent: script %s: %w", name, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("agent: compile script %s: %w", name, err)
	}
	return &ScriptCondition{
		name:     name,
		compiled: compiled,
		keys:     keys,
		bb:       bb,
		flags:    flags,
		logger:   logger,
	}, nil
}

func (c *ScriptCondition) Evaluate() behavior.State {
	solved := c.flags != nil && c.flags.FirstObjectiveSolved()
	if err := c.compiled.Set(scriptSolvedVar, solved); err != nil {
		c.logger.Warn("script set failed", "script", c.name, "var", scriptSolvedVar, "err", err)
		return behavior.Failure
	}
	for _, k := range c.keys {
		if err := c.compiled.Set(k, scriptValue(c.bb.Value(k))); err != nil {
			c.logger.Warn("script set failed", "script", c.name, "var", k, "err", err)
			return behavior.Failure
		}
	}
	if err := c.compiled.Run(); err != nil {
		c.logger.Warn("script run failed", "script", c.name, "err", err)
		return behavior.Failure
	}
	if !c.compiled.IsDefined(scriptResultVar) {
		return behavior.Failure
	}
	if c.compiled.Get(scriptResultVar).Bool() {
		return behavior.Success
	}
	return behavior.Failure
}

// scriptValue narrows blackboard values to types tengo can convert.
func scriptValue(v any) any {
	switch v := v.(type) {
	case bool, int, int64, float64, string:
		return v
	default:
		return nil
	}
}
