package model

import "strings"

type Room struct {
	Block    string `csv:"Block"`
	ID       string `csv:"Room No."`
	Capacity int    `csv:"Exam Capacity"`
}

// InBlock reports whether the room belongs to the given block. Surrounding
// whitespace is ignored on both sides.
func (r *Room) InBlock(block string) bool {
	return strings.TrimSpace(r.Block) == strings.TrimSpace(block)
}
