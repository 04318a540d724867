package block

import (
	"fmt"
)

// Store indexes blocks by id. It is immutable after Load and safe for
// concurrent readers.
type Store struct {
	blocks []*Block
	index  map[string]*Block
}

func Load(blocks []Block) (*Store, error) {
	s := &Store{
		blocks: make([]*Block, 0, len(blocks)),
		index:  make(map[string]*Block, len(blocks)),
	}

	for i := range blocks {
		b := blocks[i]

		if b.ID == "" {
			return nil, &SchemaError{Index: i, Reason: "missing id"}
		}

		if b.Type == "" {
			return nil, &SchemaError{Index: i, ID: b.ID, Reason: "missing type"}
		}

		if _, ok := s.index[b.ID]; ok {
			return nil, &SchemaError{Index: i, ID: b.ID, Reason: "duplicate id"}
		}

		s.blocks = append(s.blocks, &b)
		s.index[b.ID] = &b
	}

	return s, nil
}

func (s *Store) Len() int {
	return len(s.blocks)
}

func (s *Store) Get(id string) (*Block, error) {
	b, ok := s.index[id]

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return b, nil
}

// Blocks returns all blocks of type t in declaration order. An empty type
// returns every block.
func (s *Store) Blocks(t Type) []*Block {
	var result []*Block

	for _, b := range s.blocks {
		if t != "" && b.Type != t {
			continue
		}

		result = append(result, b)
	}

	return result
}

// ChildrenOf returns the blocks referenced by id's relationships of the given
// kind in declaration order. Targets that do not resolve are skipped and
// reported as warnings.
func (s *Store) ChildrenOf(id string, kind RelationshipKind) ([]*Block, []Warning) {
	parent, ok := s.index[id]

	if !ok {
		return nil, []Warning{
			{
				Code:     WarningDanglingReference,
				TargetID: id,
				Message:  "unknown block",
			},
		}
	}

	var result []*Block
	var warnings []Warning

	for _, target := range parent.Targets(kind) {
		b, ok := s.index[target]

		if !ok {
			warnings = append(warnings, Warning{
				Code:     WarningDanglingReference,
				BlockID:  id,
				TargetID: target,
				Message:  fmt.Sprintf("%s target does not exist", kind),
			})

			continue
		}

		result = append(result, b)
	}

	return result, warnings
}
