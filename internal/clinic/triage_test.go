package clinic

import "testing"

func TestDetectSymptoms(t *testing.T) {
	info := NewInfo()

	tests := []struct {
		name         string
		input        string
		wantKind     string
		wantService  string
		wantPriority Priority
	}{
		{
			name:         "durere is shared by urgent and pain, catalog order picks urgent",
			input:        "am o durere foarte mare",
			wantKind:     "urgent",
			wantService:  "general_dentistry",
			wantPriority: PriorityUrgent,
		},
		{
			name:         "sensitivity maps to pain",
			input:        "am o sensibilitate la rece",
			wantKind:     "pain",
			wantService:  "general_dentistry",
			wantPriority: PriorityHigh,
		},
		{
			name:         "pain beats cleaning when both present",
			input:        "am un dinte sensibil și aș vrea și un detartraj",
			wantKind:     "pain",
			wantService:  "general_dentistry",
			wantPriority: PriorityHigh,
		},
		{
			name:         "cleaning keyword alone",
			input:        "vreau un detartraj",
			wantKind:     "cleaning",
			wantService:  "teeth_cleaning",
			wantPriority: PriorityLow,
		},
		{
			name:         "case insensitive matching",
			input:        "CARIE la o măsea",
			wantKind:     "cavity",
			wantService:  "fillings",
			wantPriority: PriorityMedium,
		},
		{
			name:         "wisdom tooth extraction",
			input:        "vreau să scot o măsea de minte",
			wantKind:     "extraction",
			wantService:  "extraction",
			wantPriority: PriorityMedium,
		},
		{
			name:         "abscess routes to root canal",
			input:        "cred că am un abces",
			wantKind:     "root_canal",
			wantService:  "root_canal",
			wantPriority: PriorityHigh,
		},
		{
			name:         "cosmetic and cleaning are both low, first declared wins",
			input:        "vreau dinți albi și un control",
			wantKind:     "cosmetic",
			wantService:  "teeth_whitening",
			wantPriority: PriorityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := info.DetectSymptoms(tt.input)
			if got == nil {
				t.Fatalf("DetectSymptoms(%q) = nil, want match", tt.input)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", got.Kind, tt.wantKind)
			}
			if got.Service != tt.wantService {
				t.Errorf("Service = %q, want %q", got.Service, tt.wantService)
			}
			if got.Priority != tt.wantPriority {
				t.Errorf("Priority = %q, want %q", got.Priority, tt.wantPriority)
			}
		})
	}
}

func TestDetectSymptomsNoMatch(t *testing.T) {
	info := NewInfo()
	if got := info.DetectSymptoms("aș vrea o programare săptămâna viitoare"); got != nil {
		t.Errorf("DetectSymptoms = %+v, want nil", got)
	}
}

func TestPriorityRank(t *testing.T) {
	order := []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
	if Priority("unknown").Rank() <= PriorityLow.Rank() {
		t.Error("unknown priority must rank after low")
	}
}
