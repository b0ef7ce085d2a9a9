package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gitward/gitward/internal/domain"
	"github.com/gitward/gitward/internal/pubsub"
)

func ghAccount(id string, isDefault bool) domain.Account {
	return domain.Account{
		ID:        id,
		Name:      "Account " + id,
		Type:      domain.GitHub,
		IsDefault: isDefault,
	}
}

func countDefaults(accounts []domain.Account, t domain.IntegrationType) int {
	n := 0
	for _, a := range accounts {
		if a.Type == t && a.IsDefault {
			n++
		}
	}
	return n
}

func TestAddDemotesExistingDefault(t *testing.T) {
	s := NewAccounts()

	s.Add(ghAccount("a", true))
	s.Add(ghAccount("b", true))

	accounts := s.All()
	if got := countDefaults(accounts, domain.GitHub); got != 1 {
		t.Fatalf("expected exactly 1 default, got %d", got)
	}
	def := s.DefaultForType(domain.GitHub)
	if def == nil || def.ID != "b" {
		t.Errorf("expected 'b' to be the default, got %+v", def)
	}
}

func TestDefaultScopedPerType(t *testing.T) {
	s := NewAccounts()

	s.Add(ghAccount("gh", true))
	s.Add(domain.Account{ID: "gl", Type: domain.GitLab, IsDefault: true})

	if def := s.DefaultForType(domain.GitHub); def == nil || def.ID != "gh" {
		t.Errorf("github default disturbed by gitlab default: %+v", def)
	}
	if def := s.DefaultForType(domain.GitLab); def == nil || def.ID != "gl" {
		t.Errorf("expected gitlab default 'gl', got %+v", def)
	}
}

func TestUpdateDemotesOthers(t *testing.T) {
	s := NewAccounts()

	s.Add(ghAccount("a", true))
	s.Add(ghAccount("b", false))

	b := ghAccount("b", true)
	s.Update(b)

	if got := countDefaults(s.All(), domain.GitHub); got != 1 {
		t.Fatalf("expected exactly 1 default after update, got %d", got)
	}
	if def := s.DefaultForType(domain.GitHub); def == nil || def.ID != "b" {
		t.Errorf("expected 'b' to be default, got %+v", def)
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", false))

	s.Update(ghAccount("ghost", true))

	if len(s.All()) != 1 {
		t.Errorf("expected 1 account, got %d", len(s.All()))
	}
	if s.ByID("ghost") != nil {
		t.Error("update must not insert unknown accounts")
	}
}

func TestUpdateRefreshesActiveReference(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", false))
	if !s.SetActive("a") {
		t.Fatal("SetActive failed")
	}

	updated := ghAccount("a", false)
	updated.Name = "Renamed"
	s.Update(updated)

	act := s.ActiveForType(domain.GitHub)
	if act == nil {
		t.Fatal("expected active account")
	}
	if act.Name != "Renamed" {
		t.Errorf("active reference is stale: got name %q", act.Name)
	}
}

func TestRemoveDoesNotPromoteReplacement(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("A", true))
	s.Add(ghAccount("B", false))

	s.Remove("A")

	accounts := s.All()
	if len(accounts) != 1 || accounts[0].ID != "B" {
		t.Fatalf("expected only B to remain, got %+v", accounts)
	}
	if accounts[0].IsDefault {
		t.Error("B must not be promoted to default on removal of A")
	}
	if s.DefaultForType(domain.GitHub) != nil {
		t.Error("expected no default after removing the default account")
	}
}

func TestRemoveClearsActive(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", false))
	s.Add(ghAccount("b", false))
	s.SetActive("a")

	s.Remove("a")

	if act := s.ActiveForType(domain.GitHub); act != nil {
		t.Errorf("expected nil active after removal, got %+v", act)
	}
}

func TestRemoveCascadesAssignments(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("A", false))
	s.AssignRepository("/r", "A")

	s.Remove("A")

	if _, ok := s.AssignmentFor("/r"); ok {
		t.Error("expected assignment for /r to be removed with account A")
	}
}

func TestRemoveCascadesIntoProfiles(t *testing.T) {
	accounts := NewAccounts()
	profiles := NewProfiles()
	accounts.BindProfiles(profiles)

	accounts.Add(ghAccount("A", false))
	profiles.Add(domain.Profile{
		ID: "work",
		DefaultAccounts: map[domain.IntegrationType]string{
			domain.GitHub: "A",
			domain.GitLab: "A", // same id string, different type: must survive
		},
	})
	profiles.Add(domain.Profile{
		ID: "personal",
		DefaultAccounts: map[domain.IntegrationType]string{
			domain.GitHub: "A",
		},
	})

	accounts.Remove("A")

	work := profiles.ByID("work")
	if _, ok := work.DefaultAccounts[domain.GitHub]; ok {
		t.Error("work profile github reference not cleared")
	}
	if work.DefaultAccounts[domain.GitLab] != "A" {
		t.Error("gitlab entry with coincidentally equal id must be untouched")
	}
	personal := profiles.ByID("personal")
	if _, ok := personal.DefaultAccounts[domain.GitHub]; ok {
		t.Error("cascade must run across all profiles, not just one")
	}
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", true))

	s.Remove("ghost")

	if len(s.All()) != 1 {
		t.Errorf("expected 1 account, got %d", len(s.All()))
	}
}

func TestAssignOverwritesAndUnassignIsIdempotent(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", false))
	s.Add(ghAccount("b", false))

	s.AssignRepository("/r", "a")
	s.AssignRepository("/r", "b")

	if id, _ := s.AssignmentFor("/r"); id != "b" {
		t.Errorf("expected assignment 'b', got %q", id)
	}

	s.UnassignRepository("/r")
	s.UnassignRepository("/r") // no-op, must not panic or publish

	if _, ok := s.AssignmentFor("/r"); ok {
		t.Error("expected no assignment after unassign")
	}
}

func TestForRepositoryFiltersByType(t *testing.T) {
	s := NewAccounts()
	s.Add(ghAccount("a", false))
	s.AssignRepository("/r", "a")

	if got := s.ForRepository("/r", domain.GitHub); got == nil || got.ID != "a" {
		t.Errorf("expected account 'a', got %+v", got)
	}
	if got := s.ForRepository("/r", domain.GitLab); got != nil {
		t.Errorf("assignment of another type must be ignored, got %+v", got)
	}
	if got := s.ForRepository("/other", domain.GitHub); got != nil {
		t.Errorf("expected nil for unassigned path, got %+v", got)
	}
}

func TestSetAccountsClearsError(t *testing.T) {
	s := NewAccounts()
	s.SetError(errors.New("load failed"))

	s.SetAccounts([]domain.Account{ghAccount("a", false)})

	if err := s.Err(); err != nil {
		t.Errorf("expected error cleared, got %v", err)
	}
	if !s.HasAny() {
		t.Error("expected accounts after SetAccounts")
	}
}

func TestHasTypeAndHasAny(t *testing.T) {
	s := NewAccounts()
	if s.HasAny() {
		t.Error("empty store must report HasAny false")
	}
	s.Add(ghAccount("a", false))
	if !s.HasType(domain.GitHub) {
		t.Error("expected HasType(github) true")
	}
	if s.HasType(domain.Bitbucket) {
		t.Error("expected HasType(bitbucket) false")
	}
}

func TestSelectorsReturnCopies(t *testing.T) {
	s := NewAccounts()
	a := ghAccount("a", false)
	a.URLPatterns = []string{"github.com/org/*"}
	s.Add(a)

	got := s.ByID("a")
	got.URLPatterns[0] = "mutated"
	got.Name = "mutated"

	fresh := s.ByID("a")
	if fresh.URLPatterns[0] != "github.com/org/*" {
		t.Error("selector leaked shared pattern slice")
	}
	if fresh.Name != "Account a" {
		t.Error("selector leaked shared struct")
	}
}

func TestMutationsNotifySubscribers(t *testing.T) {
	s := NewAccounts()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Subscribe(ctx)

	s.Add(ghAccount("a", false))

	select {
	case evt := <-ch:
		if evt.Type != pubsub.Created {
			t.Errorf("expected Created event, got %s", evt.Type)
		}
		if evt.Payload.ID != "a" || evt.Payload.Entity != EntityAccount {
			t.Errorf("unexpected payload %+v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
	}

	s.Remove("a")

	select {
	case evt := <-ch:
		if evt.Type != pubsub.Deleted {
			t.Errorf("expected Deleted event, got %s", evt.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delete event")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewAccounts()
	a := ghAccount("a", true)
	a.URLPatterns = []string{"github.com/org/**"}
	s.Add(a)
	s.AssignRepository("/r", "a")

	snap := s.Snapshot()
	if snap.Version != SnapshotVersion {
		t.Errorf("expected version %d, got %d", SnapshotVersion, snap.Version)
	}

	restored := NewAccounts()
	restored.Restore(snap)

	if got := restored.ByID("a"); got == nil || !got.IsDefault {
		t.Fatalf("restored store missing account: %+v", got)
	}
	if id, _ := restored.AssignmentFor("/r"); id != "a" {
		t.Errorf("restored store missing assignment, got %q", id)
	}
}
