package layout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SigmundGranaas/petty-sub005/geo"
	"github.com/SigmundGranaas/petty-sub005/ir"
)

func TestElementTooLargeErrorMessage(t *testing.T) {
	err := &ElementTooLargeError{Required: 600, Available: 480}
	want := "Node has a height of 600.00 which exceeds the total page content height of 480.00."
	if err.Error() != want {
		t.Errorf("got %q\nwant %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("lay out image: %w", err)
	var target *ElementTooLargeError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As failed through wrapping")
	}
	if target.Required != 600 {
		t.Errorf("unwrapped Required = %g", target.Required)
	}
}

func TestBuilderMismatchErrorMessage(t *testing.T) {
	err := &BuilderMismatchError{Expected: ir.Paragraph, Actual: ir.Table}
	want := "Builder mismatch: Expected paragraph node, got table."
	if err.Error() != want {
		t.Errorf("got %q\nwant %q", err.Error(), want)
	}
}

func TestStateMismatchFromWrongResume(t *testing.T) {
	st := paragraphState(14.4)
	err := st.expect(SectionTable)
	var mismatch *StateMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want StateMismatchError", err)
	}
	if mismatch.Expected != SectionTable || mismatch.Actual != SectionParagraph {
		t.Errorf("mismatch = %+v", mismatch)
	}
	want := "State mismatch: Expected state for table, got paragraph."
	if err.Error() != want {
		t.Errorf("got %q\nwant %q", err.Error(), want)
	}

	if st.expect(SectionParagraph) != nil {
		t.Error("matching section should not error")
	}
}

func TestLayoutRejectsForeignResumeState(t *testing.T) {
	eng := newTestEngine()
	store := NewStore()
	env := eng.newEnv(testSheet(), store)
	defer eng.releaseEnv(env)

	node, err := buildNode(env, para("x"), store.Canonicalize(defaultComputedStyle()))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ctx := newContext(env, newSink(), geo.Rect{W: 100, H: 100})
	_, err = node.Layout(ctx, geo.TightWidth(100), blockState(1, nil))
	var mismatch *StateMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want StateMismatchError", err)
	}
}
