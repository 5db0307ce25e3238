package editor

import (
	"context"
	"testing"

	"gastowise/internal/core"
)

// recordingSaver captures every committed collection.
type recordingSaver struct {
	commits [][]core.Category
}

func (r *recordingSaver) SaveCategories(_ context.Context, categories []core.Category) {
	r.commits = append(r.commits, categories)
}

func fourCategories() []core.Category {
	return []core.Category{
		{ID: "c0", Name: "Alimentación", SubCategories: []string{"Mercado", "Comida Calle"}},
		{ID: "c1", Name: "Transporte", SubCategories: []string{"Bus"}},
		{ID: "c2", Name: "Vivienda", SubCategories: []string{}},
		{ID: "c3", Name: "Ocio", SubCategories: []string{"Cine", "Streaming", "Salidas"}},
	}
}

func ids(categories []core.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.ID
	}
	return out
}

func TestAddCategoryTrimsAndRejectsEmpty(t *testing.T) {
	saver := &recordingSaver{}
	e := New(nil, saver)
	ctx := context.Background()

	e.AddCategory(ctx, "   ")
	if len(saver.commits) != 0 {
		t.Fatalf("empty name should not commit")
	}

	e.AddCategory(ctx, "  Mascotas ")
	got := e.Categories()
	if len(got) != 1 || got[0].Name != "Mascotas" {
		t.Fatalf("unexpected categories: %+v", got)
	}
	if got[0].ID == "" || len(got[0].SubCategories) != 0 {
		t.Fatalf("new category malformed: %+v", got[0])
	}
	if len(saver.commits) != 1 {
		t.Fatalf("expected one commit, got %d", len(saver.commits))
	}
}

func TestRenameCommitAndDiscard(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	e.StartRename("c1")
	if id, ok := e.Renaming(); !ok || id != "c1" {
		t.Fatalf("expected renaming c1, got %q %v", id, ok)
	}
	e.CommitRename(ctx, "  Movilidad  ")
	if _, ok := e.Renaming(); ok {
		t.Fatalf("rename state should be cleared")
	}
	if got := e.Categories()[1].Name; got != "Movilidad" {
		t.Fatalf("expected trimmed committed name, got %q", got)
	}
	if len(saver.commits) != 1 {
		t.Fatalf("expected one commit, got %d", len(saver.commits))
	}

	// Empty trimmed value exits the state without changing anything.
	e.StartRename("c1")
	e.CommitRename(ctx, "   ")
	if _, ok := e.Renaming(); ok {
		t.Fatalf("rename state should be cleared after discard")
	}
	if got := e.Categories()[1].Name; got != "Movilidad" {
		t.Fatalf("discard should not rename, got %q", got)
	}
	if len(saver.commits) != 1 {
		t.Fatalf("discard should not commit")
	}
}

func TestDeleteCategoryRemovesWholesale(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	e.ToggleSubcategories("c2")
	e.DeleteCategory(ctx, "c2")
	got := ids(e.Categories())
	if len(got) != 3 || got[0] != "c0" || got[1] != "c1" || got[2] != "c3" {
		t.Fatalf("unexpected order after delete: %v", got)
	}
	if _, ok := e.ExpandedPanel(); ok {
		t.Fatalf("deleting the expanded category should collapse its panel")
	}

	e.DeleteCategory(ctx, "c404")
	if len(saver.commits) != 1 {
		t.Fatalf("deleting unknown id should not commit")
	}
}

func TestAtMostOnePanelExpanded(t *testing.T) {
	e := New(fourCategories(), &recordingSaver{})

	if _, ok := e.ExpandedPanel(); ok {
		t.Fatalf("panels should start collapsed")
	}
	e.ToggleSubcategories("c0")
	if id, ok := e.ExpandedPanel(); !ok || id != "c0" {
		t.Fatalf("expected c0 expanded, got %q %v", id, ok)
	}

	// Expanding a second panel collapses the first.
	e.ToggleSubcategories("c3")
	if id, ok := e.ExpandedPanel(); !ok || id != "c3" {
		t.Fatalf("expected c3 expanded, got %q %v", id, ok)
	}

	// Toggling the open panel collapses it.
	e.ToggleSubcategories("c3")
	if _, ok := e.ExpandedPanel(); ok {
		t.Fatalf("expected all panels collapsed")
	}
}

func TestSubCategoryAddRemoveRename(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	e.AddSubCategory(ctx, "c1", " Metro ")
	if subs := e.Categories()[1].SubCategories; len(subs) != 2 || subs[1] != "Metro" {
		t.Fatalf("unexpected subs: %v", subs)
	}

	// Duplicates within a category are rejected silently.
	e.AddSubCategory(ctx, "c1", "Metro")
	if subs := e.Categories()[1].SubCategories; len(subs) != 2 {
		t.Fatalf("duplicate should be rejected: %v", subs)
	}

	// Positional rename keeps the index.
	e.StartRenameSub("c3", 1)
	e.CommitRenameSub(ctx, "Series")
	if subs := e.Categories()[3].SubCategories; subs[1] != "Series" || subs[0] != "Cine" {
		t.Fatalf("positional rename failed: %v", subs)
	}

	e.RemoveSubCategory(ctx, "c3", "Cine")
	if subs := e.Categories()[3].SubCategories; len(subs) != 2 || subs[0] != "Series" {
		t.Fatalf("remove by value failed: %v", subs)
	}
}

func TestCategoryDragReorderSplice(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	// Source index 2 dropped at target 0 in a 4-element list.
	e.BeginCategoryDrag(2)
	e.DropCategory(ctx, 0)
	got := ids(e.Categories())
	want := []string{"c2", "c0", "c1", "c3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(saver.commits) != 1 {
		t.Fatalf("expected one commit, got %d", len(saver.commits))
	}

	// Drop without a drag in progress is a no-op.
	e.DropCategory(ctx, 3)
	if got := ids(e.Categories()); got[0] != "c2" {
		t.Fatalf("drop without drag changed order: %v", got)
	}
}

func TestSubDragSameCategoryOnly(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	e.BeginSubDrag("c3", 2)
	e.DropSub(ctx, "c3", 0)
	if subs := e.Categories()[3].SubCategories; subs[0] != "Salidas" || subs[1] != "Cine" || subs[2] != "Streaming" {
		t.Fatalf("unexpected sub order: %v", subs)
	}

	// Cross-category drop does nothing.
	e.BeginSubDrag("c0", 0)
	e.DropSub(ctx, "c3", 0)
	if subs := e.Categories()[0].SubCategories; subs[0] != "Mercado" {
		t.Fatalf("cross-category drop mutated source: %v", subs)
	}
	if subs := e.Categories()[3].SubCategories; subs[0] != "Salidas" {
		t.Fatalf("cross-category drop mutated target: %v", subs)
	}
}

func TestEveryMutationCommitsWholeCollection(t *testing.T) {
	saver := &recordingSaver{}
	e := New(fourCategories(), saver)
	ctx := context.Background()

	e.AddCategory(ctx, "Mascotas")
	e.AddSubCategory(ctx, "c0", "Panadería")
	e.BeginCategoryDrag(0)
	e.DropCategory(ctx, 1)

	if len(saver.commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(saver.commits))
	}
	for i, commit := range saver.commits {
		if len(commit) != 5 {
			t.Fatalf("commit %d should carry the whole collection, got %d entries", i, len(commit))
		}
	}
}
