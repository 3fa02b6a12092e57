package gpu

import (
	"fmt"
	"sort"
	"strings"
)

// Preprocess resolves #ifdef, #ifndef, #else and #endif lines against the
// set of defined keywords. Directive lines are dropped from the output;
// other lines are kept or removed according to the enclosing conditions.
// Blocks nest.
func Preprocess(src string, defined map[string]bool) (string, error) {
	type frame struct {
		parentActive bool
		cond         bool
		seenElse     bool
	}
	var (
		out    strings.Builder
		stack  []frame
		active = true
	)
	lines := strings.Split(src, "\n")
	for n, line := range lines {
		directive, arg := splitDirective(line)
		switch directive {
		case "#ifdef", "#ifndef":
			if arg == "" {
				return "", fmt.Errorf("line %d: %s without a name", n+1, directive)
			}
			cond := defined[arg]
			if directive == "#ifndef" {
				cond = !cond
			}
			stack = append(stack, frame{parentActive: active, cond: cond})
			active = active && cond
		case "#else":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #else without #ifdef", n+1)
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return "", fmt.Errorf("line %d: duplicate #else", n+1)
			}
			top.seenElse = true
			active = top.parentActive && !top.cond
		case "#endif":
			if len(stack) == 0 {
				return "", fmt.Errorf("line %d: #endif without #ifdef", n+1)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
		default:
			if active {
				out.WriteString(line)
				if n < len(lines)-1 {
					out.WriteByte('\n')
				}
			}
		}
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("%d unterminated #ifdef block(s)", len(stack))
	}
	return out.String(), nil
}

func splitDirective(line string) (directive, arg string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", ""
	}
	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "#ifdef", "#ifndef", "#else", "#endif":
		if len(fields) > 1 {
			arg = fields[1]
		}
		return fields[0], arg
	}
	return "", ""
}

// variantKey names a keyword set independently of enable order.
func variantKey(keywords map[string]bool) string {
	names := make([]string, 0, len(keywords))
	for k, on := range keywords {
		if on {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
