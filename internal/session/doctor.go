package session

import (
	"lista-cli/internal/mutate"
	"lista-cli/internal/store"
)

// Doctor flushes pending re-ranks and checks the working set.
func (s *Session) Doctor() store.DoctorReport {
	s.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.Doctor(&s.state)
}

// Repair re-normalizes every rank partition and saves whatever changed. It returns the
// report taken after the repair.
func (s *Session) Repair() store.DoctorReport {
	s.Flush()
	s.mu.Lock()
	if mutate.NormalizeTasks(&s.state) {
		s.saveTasksLocked()
	}
	if mutate.NormalizeLists(&s.state) {
		s.saveListsLocked()
	}
	report := store.Doctor(&s.state)
	s.mu.Unlock()
	s.notify(store.KindTasks)
	s.notify(store.KindLists)
	return report
}
