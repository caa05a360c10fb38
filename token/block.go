package token

import "fmt"

// BlockType identifies a pair of block delimiters.
type BlockType int

const (
	BlockParen     BlockType = iota // ( )
	BlockBrace                      // { }
	BlockIndex                      // [ ]
	BlockArray                      // array literal [ ]
	BlockAttribute                  // #[ ]
)

var blockNames = [...]string{
	BlockParen:     "parenthesis",
	BlockBrace:     "brace",
	BlockIndex:     "index",
	BlockArray:     "array",
	BlockAttribute: "attribute",
}

func (bt BlockType) String() string {
	if bt < 0 || int(bt) >= len(blockNames) {
		return fmt.Sprintf("BlockType(%d)", int(bt))
	}
	return blockNames[bt]
}

// Delims returns the opening and closing token types of bt.
func (bt BlockType) Delims() (open, close Type) {
	switch bt {
	case BlockParen:
		return Lparen, Rparen
	case BlockBrace:
		return Lbrace, Rbrace
	case BlockIndex:
		return Lbrack, Rbrack
	case BlockArray:
		return ArrayOpen, ArrayClose
	case BlockAttribute:
		return AttributeOpen, AttributeClose
	}
	panic(fmt.Sprintf("unknown block type %d", int(bt)))
}

var blockTypes = [...]BlockType{BlockParen, BlockBrace, BlockIndex, BlockArray, BlockAttribute}

// blockOf returns the block type t delimits and whether t opens it.
func blockOf(t Type) (bt BlockType, open, ok bool) {
	for _, bt := range blockTypes {
		o, c := bt.Delims()
		switch t {
		case o:
			return bt, true, true
		case c:
			return bt, false, true
		}
	}
	return 0, false, false
}

// MalformedBlockError reports a delimiter without a structural partner,
// or a block lookup started from a token that is not a delimiter.
type MalformedBlockError struct {
	Index  int
	Block  BlockType
	Reason string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed %v block at token %d: %s", e.Block, e.Index, e.Reason)
}

// matchBlocks computes the partner index of every delimiter in toks.
// Each block type is matched on its own by depth counting; delimiters
// of other types are ignored. Unmatched delimiters and tokens that are
// not delimiters are -1.
func matchBlocks(toks []Token) []int {
	partners := make([]int, len(toks))
	var stacks [len(blockTypes)][]int
	for i, tok := range toks {
		partners[i] = -1
		bt, open, ok := blockOf(tok.Type)
		if !ok {
			continue
		}
		if open {
			stacks[bt] = append(stacks[bt], i)
			continue
		}
		st := stacks[bt]
		if len(st) == 0 {
			continue
		}
		j := st[len(st)-1]
		stacks[bt] = st[:len(st)-1]
		partners[i], partners[j] = j, i
	}
	return partners
}
