package store

import (
	"context"
	"testing"
	"time"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/pubsub"
)

func profile(id string, isDefault bool) domain.Profile {
	return domain.Profile{
		ID:        id,
		Name:      "Profile " + id,
		GitName:   "User " + id,
		GitEmail:  id + "@example.com",
		IsDefault: isDefault,
	}
}

func TestProfileAddDemotesDefault(t *testing.T) {
	s := NewProfiles()
	s.Add(profile("work", true))
	s.Add(profile("personal", true))

	defaults := 0
	for _, p := range s.All() {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly 1 default profile, got %d", defaults)
	}
	if def := s.Default(); def == nil || def.ID != "personal" {
		t.Errorf("expected 'personal' default, got %+v", def)
	}
}

func TestProfileUpdate(t *testing.T) {
	s := NewProfiles()
	s.Add(profile("work", false))

	p := profile("work", false)
	p.GitEmail = "work@company.com"
	p.SigningKey = "ABCDEF"
	s.Update(p)

	got := s.ByID("work")
	if got.GitEmail != "work@company.com" || got.SigningKey != "ABCDEF" {
		t.Errorf("update not applied: %+v", got)
	}

	// Unknown id is a no-op.
	s.Update(profile("ghost", true))
	if s.ByID("ghost") != nil {
		t.Error("update must not insert unknown profiles")
	}
}

func TestProfileRemoveCascadesAssignments(t *testing.T) {
	s := NewProfiles()
	s.Add(profile("work", false))
	s.AssignRepository("/r", "work")

	s.Remove("work")

	if _, ok := s.AssignmentFor("/r"); ok {
		t.Error("expected assignment removed with profile")
	}
	if s.ByID("work") != nil {
		t.Error("expected profile removed")
	}
}

func TestProfileRemoveDoesNotPromote(t *testing.T) {
	s := NewProfiles()
	s.Add(profile("a", true))
	s.Add(profile("b", false))

	s.Remove("a")

	if def := s.Default(); def != nil {
		t.Errorf("no profile should be promoted to default, got %+v", def)
	}
}

func TestClearAccountRefsLeavesOthersUntouched(t *testing.T) {
	s := NewProfiles()
	p := profile("work", false)
	p.DefaultAccounts = map[domain.IntegrationType]string{
		domain.GitHub:    "A",
		domain.Bitbucket: "B",
	}
	s.Add(p)

	s.ClearAccountRefs(domain.GitHub, "A")

	got := s.ByID("work")
	if _, ok := got.DefaultAccounts[domain.GitHub]; ok {
		t.Error("github reference not cleared")
	}
	if got.DefaultAccounts[domain.Bitbucket] != "B" {
		t.Error("bitbucket reference must be untouched")
	}

	// Clearing a reference nobody holds is a no-op.
	s.ClearAccountRefs(domain.GitLab, "A")
	if len(s.ByID("work").DefaultAccounts) != 1 {
		t.Error("unrelated clear disturbed the profile")
	}
}

func TestProfileAssignmentOverwriteAndUnassign(t *testing.T) {
	s := NewProfiles()
	s.Add(profile("a", false))
	s.Add(profile("b", false))

	s.AssignRepository("/r", "a")
	s.AssignRepository("/r", "b")

	if got := s.ForRepository("/r"); got == nil || got.ID != "b" {
		t.Errorf("expected profile 'b', got %+v", got)
	}

	s.UnassignRepository("/r")
	s.UnassignRepository("/r")

	if got := s.ForRepository("/r"); got != nil {
		t.Errorf("expected nil after unassign, got %+v", got)
	}
}

func TestForRepositoryDanglingAssignment(t *testing.T) {
	s := NewProfiles()
	s.AssignRepository("/r", "gone")

	if got := s.ForRepository("/r"); got != nil {
		t.Errorf("expected nil for assignment to missing profile, got %+v", got)
	}
}

func TestProfileSubscriberNotified(t *testing.T) {
	s := NewProfiles()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	p := profile("work", false)
	p.DefaultAccounts = map[domain.IntegrationType]string{domain.GitHub: "A"}
	s.Add(p)

	select {
	case evt := <-ch:
		if evt.Type != pubsub.Created || evt.Payload.ID != "work" {
			t.Errorf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for created event")
	}

	s.ClearAccountRefs(domain.GitHub, "A")

	select {
	case evt := <-ch:
		if evt.Type != pubsub.Updated || evt.Payload.Type != domain.GitHub {
			t.Errorf("unexpected cascade event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cascade event")
	}
}

func TestProfileSnapshotRestore(t *testing.T) {
	s := NewProfiles()
	p := profile("work", true)
	p.DefaultAccounts = map[domain.IntegrationType]string{domain.GitHub: "A"}
	p.URLPatterns = []string{"github.com/company/**"}
	s.Add(p)
	s.AssignRepository("/r", "work")

	restored := NewProfiles()
	restored.Restore(s.Snapshot())

	got := restored.ByID("work")
	if got == nil || got.DefaultAccounts[domain.GitHub] != "A" {
		t.Fatalf("restore lost profile data: %+v", got)
	}
	if id, _ := restored.AssignmentFor("/r"); id != "work" {
		t.Errorf("restore lost assignment, got %q", id)
	}
}
