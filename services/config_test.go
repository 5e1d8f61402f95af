package services

import "testing"

func TestPersistSet(t *testing.T) {
	tests := []struct {
		name       string
		modalities string
		expected   map[string]bool
	}{
		{
			name:       "default text only",
			modalities: "text",
			expected:   map[string]bool{"text": true},
		},
		{
			name:       "multiple modalities with whitespace",
			modalities: "text, audio ,transcript",
			expected:   map[string]bool{"text": true, "audio": true, "transcript": true},
		},
		{
			name:       "empty disables persistence",
			modalities: "",
			expected:   map[string]bool{},
		},
		{
			name:       "trailing comma ignored",
			modalities: "text,",
			expected:   map[string]bool{"text": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := InterviewConfig{PersistModalities: tt.modalities}
			set := cfg.PersistSet()

			if len(set) != len(tt.expected) {
				t.Fatalf("expected %d entries, got %d: %v", len(tt.expected), len(set), set)
			}
			for modality := range tt.expected {
				if !set[modality] {
					t.Errorf("expected %q in persist set", modality)
				}
			}
		})
	}
}
