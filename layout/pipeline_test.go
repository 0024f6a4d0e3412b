package layout

import (
	"context"
	"fmt"
	"testing"
)

func TestPipelinePreservesJobOrder(t *testing.T) {
	eng := newTestEngine()
	p := NewPipeline(eng, 4)

	jobs := make([]Job, 8)
	for i := range jobs {
		jobs[i] = Job{
			Root:       root(para(fmt.Sprintf("document %d", i))),
			Stylesheet: testSheet(),
		}
	}
	results := p.Process(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("job %d failed: %v", i, res.Err)
		}
		want := fmt.Sprintf("document %d", i)
		if _, ok := findText(res.Sequence.Pages[0], want); !ok {
			t.Errorf("result %d holds the wrong document: %v", i, textContents(res.Sequence.Pages[0]))
		}
	}
}

func TestPipelineReportsPerJobErrors(t *testing.T) {
	eng := newTestEngine()
	p := NewPipeline(eng, 2)

	bad := root(para("x"))
	bad.Children[0].Meta.StyleSets = []string{"no-such-set"}
	jobs := []Job{
		{Root: root(para("fine")), Stylesheet: testSheet()},
		{Root: bad, Stylesheet: testSheet()},
	}
	results := p.Process(context.Background(), jobs)
	if results[0].Err != nil {
		t.Errorf("healthy job failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("broken job should carry its error")
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	eng := newTestEngine()
	p := NewPipeline(eng, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.Process(ctx, []Job{
		{Root: root(para("a")), Stylesheet: testSheet()},
		{Root: root(para("b")), Stylesheet: testSheet()},
	})
	for i, res := range results {
		if res.Err == nil {
			t.Errorf("job %d should fail under a cancelled context", i)
		}
	}
}

func TestPipelineDefaultsWorkerCount(t *testing.T) {
	eng := newTestEngine()
	p := NewPipeline(eng, 0)
	if p.workers < 1 {
		t.Errorf("workers = %d, want at least 1", p.workers)
	}
	if got := p.Process(context.Background(), nil); len(got) != 0 {
		t.Errorf("empty job list returned %d results", len(got))
	}
}
