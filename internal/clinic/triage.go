package clinic

import "strings"

// Priority is the urgency level attached to a symptom rule.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities: urgent=0 through low=3. Unknown priorities
// rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// SymptomRule maps a keyword set to a recommended service. Rules are
// evaluated in declaration order; the order breaks ties between rules
// of equal priority, so it must stay stable.
type SymptomRule struct {
	Kind     string
	Keywords []string
	Service  string
	Priority Priority
	Message  string
}

// SymptomMatch is the triage result handed back to the flow engine.
type SymptomMatch struct {
	Kind     string
	Service  string
	Priority Priority
	Message  string
}

func defaultSymptomRules() []SymptomRule {
	return []SymptomRule{
		{
			Kind:     "urgent",
			Keywords: []string{"durere", "dureri", "doare", "sângerează", "sângerare", "accident", "urgent", "fractură", "lovit", "căzut"},
			Service:  "general_dentistry",
			Priority: PriorityUrgent,
			Message:  "Înțeleg că aveți o situație urgentă. Vă recomand o consultație de urgență cât mai curând posibil.",
		},
		{
			Kind:     "pain",
			Keywords: []string{"durere", "dureri", "doare", "sensibil", "sensibilitate"},
			Service:  "general_dentistry",
			Priority: PriorityHigh,
			Message:  "Pentru durerea dentară, vă recomand o consultație generală pentru a evalua cauza și a stabili tratamentul.",
		},
		{
			Kind:     "cavity",
			Keywords: []string{"carie", "cavitate", "gaură", "spărt", "deteriorat", "rupt"},
			Service:  "fillings",
			Priority: PriorityMedium,
			Message:  "Pentru cariile dentare sau dinții deteriorați, vă recomand o plombă dentară.",
		},
		{
			Kind:     "cosmetic",
			Keywords: []string{"alb", "albire", "pete", "decolorat", "galben", "estetic", "frumos"},
			Service:  "teeth_whitening",
			Priority: PriorityLow,
			Message:  "Pentru îmbunătățirea aspectului dinților, vă recomand un tratament de albire dentară.",
		},
		{
			Kind:     "cleaning",
			Keywords: []string{"curățare", "detartraj", "tartru", "igienă", "periaj", "control"},
			Service:  "teeth_cleaning",
			Priority: PriorityLow,
			Message:  "Pentru igienă dentară și prevenție, vă recomand un detartraj profesional.",
		},
		{
			Kind:     "orthodontic",
			Keywords: []string{"strâmb", "înclinat", "aparat", "aliniament", "drept", "ortodonție"},
			Service:  "orthodontics",
			Priority: PriorityLow,
			Message:  "Pentru problemele de aliniament dentar, vă recomand o consultație ortodontică.",
		},
		{
			Kind:     "extraction",
			Keywords: []string{"extracție", "scoate", "îndepărtare", "minte", "înțelepciune"},
			Service:  "extraction",
			Priority: PriorityMedium,
			Message:  "Pentru extracția dentară, vă pot programa cu unul dintre doctorii noștri.",
		},
		{
			Kind:     "crown",
			Keywords: []string{"coroană", "capiș", "restaurare", "refacere"},
			Service:  "crown",
			Priority: PriorityMedium,
			Message:  "Pentru restaurarea dinților deteriorați, vă recomand o coroană dentară.",
		},
		{
			Kind:     "root_canal",
			Keywords: []string{"canal", "endodontic", "nerv", "infecție", "abces"},
			Service:  "root_canal",
			Priority: PriorityHigh,
			Message:  "Pentru tratamentul canalului radicular, vă recomand o consultație endodontică.",
		},
	}
}

// DetectSymptoms maps a free-text symptom description to the highest
// priority matching rule. Matching is case-insensitive substring
// containment; a rule contributes at most once no matter how many of
// its keywords occur. Returns nil when nothing matches.
func (i *Info) DetectSymptoms(text string) *SymptomMatch {
	lowered := strings.ToLower(text)

	var best *SymptomMatch
	for _, rule := range i.rules {
		for _, kw := range rule.Keywords {
			if !strings.Contains(lowered, kw) {
				continue
			}
			// Equal priority keeps the earlier rule: strictly-less only.
			if best == nil || rule.Priority.Rank() < best.Priority.Rank() {
				best = &SymptomMatch{
					Kind:     rule.Kind,
					Service:  rule.Service,
					Priority: rule.Priority,
					Message:  rule.Message,
				}
			}
			break
		}
	}
	return best
}
