// seehuhn.de/go/paint - a touch-driven raster paint engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package paint

import "slices"

// Store holds the committed strokes in drawing order, together with the
// strokes removed by Undo.
//
// A Store is not safe for concurrent use.
type Store struct {
	committed []*StrokePath
	undone    []*StrokePath

	// KeepRedoOnCommit keeps the undone strokes when a new stroke is
	// committed.
	KeepRedoOnCommit bool
}

// Commit appends a stroke. Empty strokes are ignored.
func (s *Store) Commit(p *StrokePath) {
	if p.IsEmpty() {
		return
	}
	s.committed = append(s.committed, p)
	if !s.KeepRedoOnCommit {
		clear(s.undone)
		s.undone = s.undone[:0]
	}
}

// Undo moves the most recent stroke to the redo history.
// It reports whether a stroke was moved.
func (s *Store) Undo() bool {
	n := len(s.committed)
	if n == 0 {
		return false
	}
	p := s.committed[n-1]
	s.committed[n-1] = nil
	s.committed = s.committed[:n-1]
	s.undone = append(s.undone, p)
	return true
}

// Redo moves the most recently undone stroke back to the end of the
// committed strokes. It reports whether a stroke was moved.
func (s *Store) Redo() bool {
	n := len(s.undone)
	if n == 0 {
		return false
	}
	p := s.undone[n-1]
	s.undone[n-1] = nil
	s.undone = s.undone[:n-1]
	s.committed = append(s.committed, p)
	return true
}

// Strokes returns the committed strokes in drawing order.
// The returned slice is a copy; the strokes themselves are shared and must
// not be modified.
func (s *Store) Strokes() []*StrokePath {
	return slices.Clone(s.committed)
}

// Len returns the number of committed strokes.
func (s *Store) Len() int {
	return len(s.committed)
}

// CanUndo reports whether Undo would move a stroke.
func (s *Store) CanUndo() bool {
	return len(s.committed) > 0
}

// CanRedo reports whether Redo would move a stroke.
func (s *Store) CanRedo() bool {
	return len(s.undone) > 0
}
