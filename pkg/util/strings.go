package util

import "strings"

// NormalizeSymbols trims, upper-cases and de-duplicates ticker symbols while
// keeping their original order. Blank entries are dropped.
func NormalizeSymbols(symbols []string) []string {
    seen := make(map[string]struct{}, len(symbols))
    out := make([]string, 0, len(symbols))
    for _, s := range symbols {
        s = strings.ToUpper(strings.TrimSpace(s))
        if s == "" {
            continue
        }
        if _, ok := seen[s]; ok {
            continue
        }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    return out
}
