package pipeline

import "testing"

func TestAlreadyProcessed(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     bool
	}{
		{"nil metadata", nil, false},
		{"empty metadata", map[string]string{}, false},
		{"marker set", map[string]string{ProcessedKey: ProcessedValue}, true},
		{"marker wrong value", map[string]string{ProcessedKey: "yes"}, false},
		{"unrelated keys", map[string]string{"origin": "upload"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlreadyProcessed(tt.metadata); got != tt.want {
				t.Errorf("AlreadyProcessed(%v) = %v, want %v", tt.metadata, got, tt.want)
			}
		})
	}
}

func TestMarkProcessed(t *testing.T) {
	original := map[string]string{"origin": "upload"}
	marked := MarkProcessed(original)

	if !AlreadyProcessed(marked) {
		t.Error("marked metadata does not pass the guard")
	}
	if marked["origin"] != "upload" {
		t.Error("existing metadata keys lost")
	}
	if _, ok := original[ProcessedKey]; ok {
		t.Error("MarkProcessed mutated its input")
	}
}

func TestMarkProcessedNilInput(t *testing.T) {
	marked := MarkProcessed(nil)
	if !AlreadyProcessed(marked) {
		t.Error("marked metadata does not pass the guard")
	}
}
