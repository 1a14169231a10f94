// Package label implements the label-stitching abstraction both code
// generators use to lower structured control flow into flat jump
// targets without a post-assembly patching pass: every instruction is
// preceded by a label, freshly minted unless a pending target was
// pushed for it, and a jump destination is always a fresh one reserved
// ahead of time.
package label

import "fmt"

// Provider hands out label names for a single function's code
// generation pass. It is not safe for concurrent use; each backend
// constructs one Provider per function body.
type Provider interface {
	// NextJumpLabel reserves a fresh label to be used as a jump target,
	// independent of any instruction emitted yet.
	NextJumpLabel() string
	// NextInlineLabel returns the label that must prefix the next
	// emitted instruction: a label pushed by a prior PushLabel call if
	// one is pending, otherwise a freshly minted one.
	NextInlineLabel() string
	// PushLabel queues label to be returned by the next NextInlineLabel
	// call, stitching a previously reserved jump target onto whichever
	// instruction comes next.
	PushLabel(label string)
}

// CILProvider names labels the way ilasm expects: IL_%04X for
// instruction labels, JP_%04X for jump targets, each prefix numbered by
// its own counter so both sequences stay dense.
type CILProvider struct {
	counter     int
	jumpCounter int
	pushed      []string
}

// NewCIL creates a label Provider for one CIL method body.
func NewCIL() *CILProvider { return &CILProvider{} }

func (p *CILProvider) NextJumpLabel() string {
	label := fmt.Sprintf("JP_%04X", p.jumpCounter)
	p.jumpCounter++
	return label
}

func (p *CILProvider) NextInlineLabel() string {
	if n := len(p.pushed); n > 0 {
		label := p.pushed[n-1]
		p.pushed = p.pushed[:n-1]
		return label
	}
	label := fmt.Sprintf("IL_%04X", p.counter)
	p.counter++
	return label
}

func (p *CILProvider) PushLabel(label string) { p.pushed = append(p.pushed, label) }

// JVMProvider names labels the way Jasmin expects: bare incrementing
// integers shared between instruction and jump-target labels.
type JVMProvider struct {
	counter int
	pushed  []string
}

// NewJVM creates a label Provider for one Jasmin method body.
func NewJVM() *JVMProvider { return &JVMProvider{} }

func (p *JVMProvider) next() string {
	label := fmt.Sprintf("%d", p.counter)
	p.counter++
	return label
}

func (p *JVMProvider) NextJumpLabel() string { return p.next() }

func (p *JVMProvider) NextInlineLabel() string {
	if n := len(p.pushed); n > 0 {
		label := p.pushed[n-1]
		p.pushed = p.pushed[:n-1]
		return label
	}
	return p.next()
}

func (p *JVMProvider) PushLabel(label string) { p.pushed = append(p.pushed, label) }
