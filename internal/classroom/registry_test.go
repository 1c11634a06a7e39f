package classroom

import "testing"

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")

	id, ok := r.Lookup("c1")
	if !ok || id.UserID != "" {
		t.Fatalf("fresh connection should have empty identity, got %+v ok=%v", id, ok)
	}

	r.SetIdentity("c1", Identity{UserID: "u1", UserName: "Ada", Role: RoleInstructor})
	id, ok = r.Lookup("c1")
	if !ok || id.UserID != "u1" || id.Role != RoleInstructor {
		t.Fatalf("identity not stored: %+v", id)
	}

	r.Remove("c1")
	if _, ok := r.Lookup("c1"); ok {
		t.Fatal("removed connection still present")
	}
	r.Remove("c1") // no-op
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRegisterDoesNotClobberIdentity(t *testing.T) {
	r := NewRegistry()
	r.Register("c1")
	r.SetIdentity("c1", Identity{UserID: "u1"})
	r.Register("c1")

	if id, _ := r.Lookup("c1"); id.UserID != "u1" {
		t.Fatalf("re-register erased identity: %+v", id)
	}
}
