package tool

import "strings"

// parseParams splits a process_file/batch_process params string ("k=v k2=v2",
// spec.md section 6) into the map the Executor expects. A token without an
// "=" is ignored rather than rejected: the Executor's own param validation
// catches a genuinely missing required param and reports it with more
// context than a bare parse error could.
func parseParams(raw string) map[string]string {
	out := make(map[string]string)

	for _, tok := range strings.Fields(raw) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}

		out[k] = v
	}

	return out
}
