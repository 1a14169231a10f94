package label

import "testing"

func TestCILProvider_InlineDefersToPushed(t *testing.T) {
	p := NewCIL()
	first := p.NextInlineLabel()
	if first != "IL_0000" {
		t.Fatalf("first inline label = %q, want IL_0000", first)
	}

	jump := p.NextJumpLabel()
	if jump != "JP_0000" {
		t.Fatalf("jump label = %q, want JP_0000", jump)
	}

	p.PushLabel(jump)
	stitched := p.NextInlineLabel()
	if stitched != jump {
		t.Fatalf("stitched inline label = %q, want pushed label %q", stitched, jump)
	}

	// counters for instruction and jump labels advance independently
	next := p.NextInlineLabel()
	if next != "IL_0001" {
		t.Fatalf("next inline label = %q, want IL_0001", next)
	}
}

func TestJVMProvider_SharedCounter(t *testing.T) {
	p := NewJVM()
	a := p.NextInlineLabel()
	b := p.NextJumpLabel()
	c := p.NextInlineLabel()
	if a != "0" || b != "1" || c != "2" {
		t.Fatalf("labels = %q, %q, %q; want shared incrementing counter 0,1,2", a, b, c)
	}
}

func TestJVMProvider_PushLabelIsLIFO(t *testing.T) {
	p := NewJVM()
	l1 := p.NextJumpLabel()
	l2 := p.NextJumpLabel()
	p.PushLabel(l1)
	p.PushLabel(l2)
	if got := p.NextInlineLabel(); got != l2 {
		t.Fatalf("first popped label = %q, want last pushed %q", got, l2)
	}
	if got := p.NextInlineLabel(); got != l1 {
		t.Fatalf("second popped label = %q, want %q", got, l1)
	}
}
