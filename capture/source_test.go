package capture

import "testing"

func TestSilent(t *testing.T) {
	var s Source = Silent{}
	if err := s.Start(nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
