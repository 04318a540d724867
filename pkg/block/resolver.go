package block

import (
	"fmt"
	"slices"
)

// structural types a caller may skip without it being reported
var ignored = []Type{
	TypeMergedCell,
	TypeTableTitle,
	TypeTableFooter,
	TypeSelectionElement,
}

type Relations struct {
	Children []string
	Values   []string
}

type Resolver struct {
	store *Store
}

func NewResolver(store *Store) *Resolver {
	return &Resolver{
		store: store,
	}
}

// Relations resolves the relationship declarations of b into id sequences.
// Dangling targets are dropped and reported.
func (r *Resolver) Relations(b *Block) (Relations, []Warning) {
	var result Relations
	var warnings []Warning

	for _, kind := range []RelationshipKind{RelationshipChild, RelationshipValue} {
		blocks, w := r.store.ChildrenOf(b.ID, kind)
		warnings = append(warnings, w...)

		for _, c := range blocks {
			if kind == RelationshipChild {
				result.Children = append(result.Children, c.ID)
			} else {
				result.Values = append(result.Values, c.ID)
			}
		}
	}

	return result, warnings
}

// Children returns the CHILD blocks of b restricted to the given types. Children
// of any other type are skipped; unless they are one of the ignored structural
// types this is reported.
func (r *Resolver) Children(b *Block, types ...Type) ([]*Block, []Warning) {
	children, warnings := r.store.ChildrenOf(b.ID, RelationshipChild)

	if len(types) == 0 {
		return children, warnings
	}

	var result []*Block

	for _, c := range children {
		if slices.Contains(types, c.Type) {
			result = append(result, c)
			continue
		}

		if slices.Contains(ignored, c.Type) {
			continue
		}

		warnings = append(warnings, Warning{
			Code:     WarningUnexpectedType,
			BlockID:  b.ID,
			TargetID: c.ID,
			Message:  fmt.Sprintf("%s child of %s", c.Type, b.Type),
		})
	}

	return result, warnings
}

func (r *Resolver) Values(b *Block) ([]*Block, []Warning) {
	return r.store.ChildrenOf(b.ID, RelationshipValue)
}

// Verify rejects a graph in which a block is its own transitive CHILD.
func (r *Resolver) Verify() error {
	const (
		white = iota
		grey
		black
	)

	color := make(map[string]int, len(r.store.blocks))

	type frame struct {
		id      string
		targets []string
		next    int
	}

	for _, root := range r.store.blocks {
		if color[root.ID] != white {
			continue
		}

		color[root.ID] = grey
		stack := []*frame{{id: root.ID, targets: r.childIDs(root)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.next >= len(top.targets) {
				color[top.id] = black
				stack = stack[:len(stack)-1]

				continue
			}

			target := top.targets[top.next]
			top.next++

			child := r.store.index[target]

			switch color[target] {
			case grey:
				var cycle []string

				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, stack[i].id)

					if stack[i].id == target {
						break
					}
				}

				slices.Reverse(cycle)

				return &GraphError{
					Cycle: append(cycle, target),
				}

			case white:
				color[target] = grey
				stack = append(stack, &frame{id: target, targets: r.childIDs(child)})
			}
		}
	}

	return nil
}

// childIDs returns the resolved CHILD targets of b. Dangling targets cannot
// close a cycle, so their warnings are left to the builder.
func (r *Resolver) childIDs(b *Block) []string {
	relations, _ := r.Relations(b)
	return relations.Children
}
