// Package insights turns expense history into short textual spending
// advice through an external text-generation service. The service is
// best-effort: any failure degrades to a single placeholder insight and is
// never surfaced as an error.
package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gastowise/internal/cache"
	"gastowise/internal/core"
)

// Type classifies an insight for display.
type Type string

const (
	TypeSaving  Type = "saving"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Insight is one piece of generated advice.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        Type   `json:"type"`
}

// Generator produces the raw model reply for a prompt. The Gemini client
// implements it; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Trigger policy: the advisor stays quiet until MinExpenses are recorded,
// then auto-refreshes every RefreshEvery additional expenses. Manual
// refresh is always allowed past the threshold.
const (
	MinExpenses  = 3
	RefreshEvery = 3
)

// CanRefresh reports whether a manual refresh is allowed.
func CanRefresh(count int) bool { return count >= MinExpenses }

// ShouldAutoRefresh reports whether an automatic refresh fires at the
// given expense count.
func ShouldAutoRefresh(count int) bool {
	return count >= MinExpenses && count%RefreshEvery == 0
}

// Successful replies are memoized per expense fingerprint so repeated
// refreshes over unchanged data issue no new requests. Failures are never
// cached.
const (
	cacheSize = 8
	cacheTTL  = 10 * time.Minute
)

type Advisor struct {
	generator Generator
	cache     *cache.LRUCache[[]Insight]
}

func NewAdvisor(g Generator) *Advisor {
	return &Advisor{
		generator: g,
		cache:     cache.NewLRUCache[[]Insight](cacheSize, cacheTTL),
	}
}

// Insights generates advice for the given expenses. Below the threshold it
// returns nothing and issues no request. Service errors and malformed
// replies both collapse into the unavailable placeholder.
func (a *Advisor) Insights(ctx context.Context, expenses []core.Expense) []Insight {
	if len(expenses) < MinExpenses {
		return nil
	}

	prompt := BuildPrompt(expenses)
	key := fingerprint(prompt)
	if cached, ok := a.cache.Get(key); ok {
		slog.DebugContext(ctx, "Insight cache hit", "expenses", len(expenses))
		return cached
	}

	reply, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		slog.WarnContext(ctx, "Insight generation failed", "error", err)
		return []Insight{Unavailable()}
	}

	parsed, err := parseReply(reply)
	if err != nil {
		slog.WarnContext(ctx, "Insight reply was not valid JSON", "error", err)
		return []Insight{Unavailable()}
	}

	a.cache.Set(key, parsed)
	return parsed
}

func fingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}

// Unavailable is the placeholder shown when the advisor cannot answer.
func Unavailable() Insight {
	return Insight{
		Title:       "IA no disponible",
		Description: "No pudimos conectar con el analista inteligente en este momento.",
		Type:        TypeInfo,
	}
}

// BuildPrompt serializes each expense as a one-line summary and wraps the
// list in the instruction asking for a constrained JSON reply.
func BuildPrompt(expenses []core.Expense) string {
	lines := make([]string, len(expenses))
	for i, e := range expenses {
		lines[i] = e.Summary()
	}
	return fmt.Sprintf(`Analiza los siguientes gastos personales y proporciona 3 consejos o insights financieros útiles.
Gastos:
%s

Devuelve la respuesta en formato JSON: un objeto con una lista 'insights' de objetos que tengan 'title', 'description' y 'type' (saving, warning, info).`,
		strings.Join(lines, "\n"))
}

func parseReply(reply string) ([]Insight, error) {
	reply = stripFence(strings.TrimSpace(reply))

	var payload struct {
		Insights []Insight `json:"insights"`
	}
	if err := json.Unmarshal([]byte(reply), &payload); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}

	insights := payload.Insights
	for i := range insights {
		switch insights[i].Type {
		case TypeSaving, TypeWarning, TypeInfo:
		default:
			insights[i].Type = TypeInfo
		}
	}
	if insights == nil {
		insights = []Insight{}
	}
	return insights, nil
}

// stripFence removes a Markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
