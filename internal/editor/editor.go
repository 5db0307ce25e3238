// Package editor holds the in-memory model behind the category management
// screen: add, rename, delete and drag-reorder of categories and their
// subcategories, plus the transient inline-edit and drag states. Every
// mutation commits the whole collection through the data service; there is
// no partial-update path.
//
// The model is single-threaded by construction (one editor per UI), so it
// carries no locking.
package editor

import (
	"context"
	"strings"

	"gastowise/internal/core"
)

// Saver is the commit sink for every edit, satisfied by client.Service.
type Saver interface {
	SaveCategories(ctx context.Context, categories []core.Category)
}

// Panel is the tagged value for subcategory panel expansion: either no
// panel is open or exactly one category's panel is. Encoding the mutual
// exclusion in the type keeps "at most one expanded" machine-checkable.
type Panel struct {
	open       bool
	categoryID string
}

func NoPanel() Panel            { return Panel{} }
func PanelFor(id string) Panel  { return Panel{open: true, categoryID: id} }
func (p Panel) Expanded() (string, bool) { return p.categoryID, p.open }

// subKey addresses one subcategory entry positionally. Renaming an entry
// in place does not reassign its index.
type subKey struct {
	categoryID string
	index      int
}

type Editor struct {
	categories []core.Category
	saver      Saver

	renamingCat string // category id being renamed, "" when viewing
	panel       Panel
	renamingSub subKey
	subEditing  bool

	catDrag     int // source index, -1 when idle
	subDrag     subKey
	subDragging bool
}

func New(initial []core.Category, saver Saver) *Editor {
	return &Editor{
		categories: cloneCategories(initial),
		saver:      saver,
		catDrag:    -1,
	}
}

// Categories returns a copy of the current collection in display order.
func (e *Editor) Categories() []core.Category {
	return cloneCategories(e.categories)
}

// AddCategory appends a category with a fresh id. An empty trimmed name is
// silently rejected.
func (e *Editor) AddCategory(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	e.categories = append(e.categories, core.NewCategory(name))
	e.commit(ctx)
}

// DeleteCategory removes the category wholesale. Callers are expected to
// have confirmed interactively. Existing expenses are untouched: they keep
// their denormalized category snapshot.
func (e *Editor) DeleteCategory(ctx context.Context, id string) {
	kept := e.categories[:0]
	removed := false
	for _, c := range e.categories {
		if c.ID == id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return
	}
	e.categories = kept
	if open, ok := e.panel.Expanded(); ok && open == id {
		e.panel = NoPanel()
	}
	e.commit(ctx)
}

// StartRename enters the inline-edit state for a category name. Any other
// rename in progress is abandoned.
func (e *Editor) StartRename(id string) {
	if e.find(id) < 0 {
		return
	}
	e.renamingCat = id
}

// Renaming reports which category is in the editing-name state.
func (e *Editor) Renaming() (string, bool) {
	return e.renamingCat, e.renamingCat != ""
}

// CommitRename exits the editing-name state, committing the trimmed value
// or silently discarding when it trims to empty. Both blur and
// Enter-confirm funnel here.
func (e *Editor) CommitRename(ctx context.Context, value string) {
	id := e.renamingCat
	e.renamingCat = ""
	if id == "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	i := e.find(id)
	if i < 0 {
		return
	}
	e.categories[i].Name = value
	e.commit(ctx)
}

// ToggleSubcategories expands the panel for id, collapsing whichever panel
// was open before; toggling the already-open panel collapses it.
func (e *Editor) ToggleSubcategories(id string) {
	if open, ok := e.panel.Expanded(); ok && open == id {
		e.panel = NoPanel()
		return
	}
	if e.find(id) < 0 {
		return
	}
	e.panel = PanelFor(id)
}

// ExpandedPanel reports which category's subcategory panel is open.
func (e *Editor) ExpandedPanel() (string, bool) {
	return e.panel.Expanded()
}

// AddSubCategory appends a subcategory name. Empty trimmed names and
// duplicates within the category are silently rejected (names are unique
// per category).
func (e *Editor) AddSubCategory(ctx context.Context, categoryID, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	i := e.find(categoryID)
	if i < 0 {
		return
	}
	for _, existing := range e.categories[i].SubCategories {
		if existing == name {
			return
		}
	}
	e.categories[i].SubCategories = append(e.categories[i].SubCategories, name)
	e.commit(ctx)
}

// RemoveSubCategory removes a subcategory by value.
func (e *Editor) RemoveSubCategory(ctx context.Context, categoryID, name string) {
	i := e.find(categoryID)
	if i < 0 {
		return
	}
	subs := e.categories[i].SubCategories
	kept := subs[:0]
	removed := false
	for _, s := range subs {
		if s == name {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return
	}
	e.categories[i].SubCategories = kept
	e.commit(ctx)
}

// StartRenameSub enters the editing-value state for the subcategory at the
// given position.
func (e *Editor) StartRenameSub(categoryID string, index int) {
	i := e.find(categoryID)
	if i < 0 || index < 0 || index >= len(e.categories[i].SubCategories) {
		return
	}
	e.renamingSub = subKey{categoryID: categoryID, index: index}
	e.subEditing = true
}

// CommitRenameSub exits the editing-value state with the same trim-or-
// discard rule as category renames. The entry keeps its position.
func (e *Editor) CommitRenameSub(ctx context.Context, value string) {
	if !e.subEditing {
		return
	}
	key := e.renamingSub
	e.subEditing = false
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	i := e.find(key.categoryID)
	if i < 0 || key.index >= len(e.categories[i].SubCategories) {
		return
	}
	e.categories[i].SubCategories[key.index] = value
	e.commit(ctx)
}

// BeginCategoryDrag enters the dragging state for the category at
// sourceIndex.
func (e *Editor) BeginCategoryDrag(sourceIndex int) {
	if sourceIndex < 0 || sourceIndex >= len(e.categories) {
		return
	}
	e.catDrag = sourceIndex
}

// DropCategory completes a category drag at targetIndex with splice
// semantics: the source element is removed, then reinserted at the target
// position of the resulting slice.
func (e *Editor) DropCategory(ctx context.Context, targetIndex int) {
	source := e.catDrag
	e.catDrag = -1
	if source < 0 || targetIndex < 0 || targetIndex >= len(e.categories) {
		return
	}
	if source == targetIndex {
		return
	}
	moved := e.categories[source]
	rest := append(e.categories[:source:source], e.categories[source+1:]...)
	e.categories = append(rest[:targetIndex:targetIndex],
		append([]core.Category{moved}, rest[targetIndex:]...)...)
	e.commit(ctx)
}

// BeginSubDrag enters the dragging state for one subcategory entry.
func (e *Editor) BeginSubDrag(categoryID string, sourceIndex int) {
	i := e.find(categoryID)
	if i < 0 || sourceIndex < 0 || sourceIndex >= len(e.categories[i].SubCategories) {
		return
	}
	e.subDrag = subKey{categoryID: categoryID, index: sourceIndex}
	e.subDragging = true
}

// DropSub completes a subcategory drag. Dropping onto a different
// category's list is a no-op; only same-category reorder is permitted.
func (e *Editor) DropSub(ctx context.Context, categoryID string, targetIndex int) {
	if !e.subDragging || e.subDrag.categoryID != categoryID {
		return
	}
	source := e.subDrag.index
	e.subDragging = false
	i := e.find(categoryID)
	if i < 0 {
		return
	}
	subs := e.categories[i].SubCategories
	if targetIndex < 0 || targetIndex >= len(subs) || source == targetIndex {
		return
	}
	moved := subs[source]
	rest := append(subs[:source:source], subs[source+1:]...)
	e.categories[i].SubCategories = append(rest[:targetIndex:targetIndex],
		append([]string{moved}, rest[targetIndex:]...)...)
	e.commit(ctx)
}

func (e *Editor) find(id string) int {
	for i, c := range e.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) commit(ctx context.Context) {
	if e.saver == nil {
		return
	}
	e.saver.SaveCategories(ctx, cloneCategories(e.categories))
}

func cloneCategories(in []core.Category) []core.Category {
	out := make([]core.Category, len(in))
	for i, c := range in {
		c.SubCategories = append([]string{}, c.SubCategories...)
		out[i] = c
	}
	return out
}
