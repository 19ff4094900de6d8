package sequence

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	tests := []struct {
		button int
		want   byte
	}{
		{0, '0'},
		{9, '9'},
		{10, 'A'},
		{12, 'C'},
	}
	for _, tt := range tests {
		if got := Key(tt.button); got != tt.want {
			t.Errorf("Key(%d) = %c, want %c", tt.button, got, tt.want)
		}
	}
}

func TestTracker(t *testing.T) {
	base := time.Unix(1000, 0)
	tr := NewTracker(5)

	if tr.EndsWith("1") || tr.Last(3) != "" {
		t.Error("empty tracker matched")
	}
	if !tr.EndsWith("") {
		t.Error("empty pattern should always match")
	}

	for i, b := range []int{2, 3, 4} {
		tr.Add(b, at(base, float64(i)))
	}
	if tr.String() != "234" || !tr.EndsWith("34") || tr.EndsWith("23") {
		t.Errorf("sequence = %q", tr.String())
	}
	if got := tr.Last(5); got != "234" {
		t.Errorf("Last(5) = %q, want all keys", got)
	}
	if span, ok := tr.Span(3); !ok || span != 2*time.Second {
		t.Errorf("Span(3) = %v, %v", span, ok)
	}
	if _, ok := tr.Span(4); ok {
		t.Error("Span beyond the remembered presses")
	}

	for i, b := range []int{5, 6, 11} {
		tr.Add(b, at(base, float64(3+i)))
	}
	if tr.String() != "3456B" {
		t.Errorf("trimmed sequence = %q, want 3456B", tr.String())
	}
	if span, _ := tr.Span(5); span != 4*time.Second {
		t.Errorf("span after trim = %v, want 4s", span)
	}

	tr.Reset()
	if tr.String() != "" {
		t.Errorf("after Reset = %q", tr.String())
	}
}
