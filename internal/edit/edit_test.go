package edit

import "testing"

func TestLifecycle(t *testing.T) {
	t.Parallel()

	m := New()
	if m.Editing() {
		t.Fatal("new machine is not idle")
	}
	if _, ok := m.Commit(); ok {
		t.Error("Commit() while idle reported a session")
	}
	if ok := m.SetPending("x"); ok {
		t.Error("SetPending() while idle reported success")
	}

	if _, had := m.Start("1", "name", "ada"); had {
		t.Error("Start() on idle machine reported a prior session")
	}
	s, ok := m.Active()
	if !ok {
		t.Fatal("no active session after Start()")
	}
	if s.Pending != "ada" || s.Original != "ada" {
		t.Errorf("session = %+v, want pending and original both ada", s)
	}

	m.SetPending("ada l.")
	done, ok := m.Commit()
	if !ok {
		t.Fatal("Commit() reported no session")
	}
	if done.Pending != "ada l." || done.Original != "ada" {
		t.Errorf("committed session = %+v", done)
	}
	if m.Editing() {
		t.Error("machine still editing after commit")
	}
}

func TestCancelKeepsOriginal(t *testing.T) {
	t.Parallel()

	m := New()
	m.Start("1", "name", "ada")
	m.SetPending("typo")

	s, ok := m.Cancel()
	if !ok {
		t.Fatal("Cancel() reported no session")
	}
	if s.Original != "ada" {
		t.Errorf("Original = %v, want ada", s.Original)
	}
	if m.Editing() {
		t.Error("machine still editing after cancel")
	}
}

func TestStartReturnsPriorSession(t *testing.T) {
	t.Parallel()

	m := New()
	m.Start("1", "name", "ada")
	m.SetPending("X")

	prior, had := m.Start("2", "name", "grace")
	if !had {
		t.Fatal("Start() did not surface the prior session")
	}
	if prior.RowID != "1" || prior.Pending != "X" {
		t.Errorf("prior = %+v, want row 1 pending X", prior)
	}

	s, _ := m.Active()
	if s.RowID != "2" || s.Pending != "grace" {
		t.Errorf("active = %+v, want row 2 pending grace", s)
	}
}

func TestDrop(t *testing.T) {
	t.Parallel()

	m := New()
	m.Start("1", "name", "ada")

	if m.Drop("2") {
		t.Error("Drop() of unrelated row cleared the session")
	}
	if !m.Drop("1") {
		t.Error("Drop() of edited row reported no change")
	}
	if m.Editing() {
		t.Error("machine still editing after drop")
	}
}
