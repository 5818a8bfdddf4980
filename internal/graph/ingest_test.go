package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/layout"
)

type statement struct {
	cypher string
	params map[string]any
}

// fakeRunner records statements in order and can fail on a chosen one.
type fakeRunner struct {
	statements []statement
	failOn     string
}

func (f *fakeRunner) run(_ context.Context, cypher string, params map[string]any) error {
	if f.failOn != "" && cypher == f.failOn {
		return errors.New("statement failed")
	}
	f.statements = append(f.statements, statement{cypher: cypher, params: params})
	return nil
}

func fullMetadata() *catalog.Metadata {
	return &catalog.Metadata{
		ISBN:          "9784101010014",
		Title:         "こころ",
		Authors:       []string{"夏目漱石", "校訂者"},
		Publisher:     "新潮社",
		PublishedYear: "2004",
		Language:      "jpn",
		Description:   "青年と先生の物語。",
		NDC:           catalog.SplitNDC("913.6"),
		Subjects:      []string{"日本文学", "小説"},
		Cover:         "https://cover/1.jpg",
	}
}

func TestIngestStepsFullRecord(t *testing.T) {
	r := &fakeRunner{}
	if err := ingestSteps(context.Background(), r, fullMetadata(), "学生時代に読んだ"); err != nil {
		t.Fatalf("ingestSteps: %v", err)
	}

	wantOrder := []string{
		cypherUpsertBook,
		cypherEnsureLevel1,
		cypherEnsureLevel2,
		cypherEnsureLevel3,
		cypherClassify,
		cypherAttachLeafParent,
		cypherAttachSubject,
		cypherAttachSubject,
		cypherAttachMeaning,
	}
	if len(r.statements) != len(wantOrder) {
		t.Fatalf("ran %d statements, want %d", len(r.statements), len(wantOrder))
	}
	for i, want := range wantOrder {
		if r.statements[i].cypher != want {
			t.Errorf("statement %d out of order", i)
		}
	}

	book := r.statements[0].params
	if book["isbn"] != "9784101010014" || book["authors"] != "夏目漱石, 校訂者" {
		t.Errorf("book params = %v", book)
	}

	// parents must be merged before children and referenced correctly
	if p := r.statements[2].params; p["code"] != "91" || p["parent"] != "9" {
		t.Errorf("level2 params = %v", p)
	}
	if p := r.statements[3].params; p["code"] != "913" || p["parent"] != "91" {
		t.Errorf("level3 params = %v", p)
	}
	if p := r.statements[4].params; p["code"] != "913.6" {
		t.Errorf("classify params = %v", p)
	}
	// the full code hangs under its level-3 ancestor
	if p := r.statements[5].params; p["code"] != "913.6" || p["parent"] != "913" {
		t.Errorf("leaf parent params = %v", p)
	}

	meaning := r.statements[8].params
	if meaning["text"] != "学生時代に読んだ" {
		t.Errorf("meaning params = %v", meaning)
	}
	if id, _ := meaning["id"].(string); id == "" {
		t.Error("meaning must carry a generated id")
	}
}

func TestIngestStepsWithoutClassification(t *testing.T) {
	meta := fullMetadata()
	meta.NDC = nil
	meta.Subjects = nil

	r := &fakeRunner{}
	if err := ingestSteps(context.Background(), r, meta, ""); err != nil {
		t.Fatalf("ingestSteps: %v", err)
	}
	if len(r.statements) != 1 || r.statements[0].cypher != cypherUpsertBook {
		t.Errorf("expected only the book upsert, got %d statements", len(r.statements))
	}
}

func TestIngestStepsShallowNDC(t *testing.T) {
	meta := fullMetadata()
	meta.NDC = catalog.SplitNDC("9")
	meta.Subjects = nil

	r := &fakeRunner{}
	if err := ingestSteps(context.Background(), r, meta, ""); err != nil {
		t.Fatalf("ingestSteps: %v", err)
	}

	want := []string{cypherUpsertBook, cypherEnsureLevel1, cypherClassify}
	if len(r.statements) != len(want) {
		t.Fatalf("ran %d statements, want %d", len(r.statements), len(want))
	}
	for i, w := range want {
		if r.statements[i].cypher != w {
			t.Errorf("statement %d out of order", i)
		}
	}
}

func TestIngestStepsLevelCodeNeedsNoLeafParent(t *testing.T) {
	meta := fullMetadata()
	meta.NDC = catalog.SplitNDC("913")
	meta.Subjects = nil

	r := &fakeRunner{}
	if err := ingestSteps(context.Background(), r, meta, ""); err != nil {
		t.Fatalf("ingestSteps: %v", err)
	}
	for _, s := range r.statements {
		if s.cypher == cypherAttachLeafParent {
			t.Error("a code equal to its level-3 prefix already sits in the hierarchy")
		}
	}
}

func TestIngestStepsEmptyMeaningSkipped(t *testing.T) {
	r := &fakeRunner{}
	if err := ingestSteps(context.Background(), r, fullMetadata(), ""); err != nil {
		t.Fatalf("ingestSteps: %v", err)
	}
	for _, s := range r.statements {
		if s.cypher == cypherAttachMeaning {
			t.Error("empty meaning must not create an annotation")
		}
	}
}

func TestIngestStepsPropagatesFailure(t *testing.T) {
	r := &fakeRunner{failOn: cypherClassify}
	err := ingestSteps(context.Background(), r, fullMetadata(), "note")
	if err == nil {
		t.Fatal("expected error from failing statement")
	}
	for _, s := range r.statements {
		if s.cypher == cypherAttachSubject {
			t.Error("steps after the failure must not run")
		}
	}
}

func TestApplySteps(t *testing.T) {
	positions := []layout.Position{
		{ISBN: "a", Row: 0, Col: 0},
		{ISBN: "c", Row: 1, Col: 1},
		{ISBN: "b", Row: 0, Col: 1},
		{ISBN: "d", Row: 1, Col: 0},
		{ISBN: "e", Row: 2, Col: 0},
	}

	r := &fakeRunner{}
	if err := applySteps(context.Background(), r, positions); err != nil {
		t.Fatalf("applySteps: %v", err)
	}

	if r.statements[0].cypher != cypherClearChain {
		t.Error("chain must be cleared first")
	}

	var links [][2]string
	var syncs int
	for _, s := range r.statements[1:] {
		switch s.cypher {
		case cypherLinkNext:
			links = append(links, [2]string{s.params["left"].(string), s.params["right"].(string)})
		case cypherSyncPosition:
			syncs++
		}
	}

	wantLinks := [][2]string{{"a", "b"}, {"d", "c"}}
	if len(links) != len(wantLinks) {
		t.Fatalf("links = %v, want %v", links, wantLinks)
	}
	for i, w := range wantLinks {
		if links[i] != w {
			t.Errorf("link %d = %v, want %v (rows chain left to right, never across rows)", i, links[i], w)
		}
	}
	if syncs != len(positions) {
		t.Errorf("synced %d positions, want %d", syncs, len(positions))
	}
}

func TestApplyStepsEmptyLayout(t *testing.T) {
	r := &fakeRunner{}
	if err := applySteps(context.Background(), r, nil); err != nil {
		t.Fatalf("applySteps: %v", err)
	}
	if len(r.statements) != 1 || r.statements[0].cypher != cypherClearChain {
		t.Errorf("empty layout should only clear the chain, got %d statements", len(r.statements))
	}
}
