package validation

import (
	"testing"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
)

func TestValidUserName_Valid(t *testing.T) {
	valids := []string{
		"abc",
		"alice",
		"Alice_42",
		"___",
		"x1y2z3",
	}
	for _, v := range valids {
		if !ValidUserName(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
}

func TestValidUserName_Invalid(t *testing.T) {
	invalids := []string{
		"",              // empty
		"ab",            // too short
		"bad space",     // space
		"alice@x.com",   // looks like an email
		"a@b",           // contains '@'
		"dash-name",     // non word char
		"semicolon;hax", // semicolon
	}
	for _, v := range invalids {
		if ValidUserName(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valids := []string{"alice@x.com", "a.b+c@mail.example.org", "BOB@X.IO"}
	for _, v := range valids {
		if !ValidEmail(v) {
			t.Fatalf("expected valid: %q", v)
		}
	}
	invalids := []string{"", "alice", "alice@", "@x.com", "alice@x", "a b@x.com", "a@@x.com", "alice@x.",
		"Élan@x.com", "élan@x.com", "bob@exämple.com", "bob@x.c0m"}
	for _, v := range invalids {
		if ValidEmail(v) {
			t.Fatalf("expected invalid: %q", v)
		}
	}
}

func TestUser(t *testing.T) {
	ok := repository.CreateUserInput{ID: "u1", Name: "alice", Email: "alice@x.com", Password: []byte("secret")}
	if err := User(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]repository.CreateUserInput{
		"blank id":      {ID: "", Name: "alice", Email: "alice@x.com", Password: []byte("s")},
		"padded id":     {ID: " u1", Name: "alice", Email: "alice@x.com", Password: []byte("s")},
		"email as name": {ID: "u1", Name: "alice@x.com", Email: "alice@x.com", Password: []byte("s")},
		"bad email":     {ID: "u1", Name: "alice", Email: "alice.x.com", Password: []byte("s")},
		"no credential": {ID: "u1", Name: "alice", Email: "alice@x.com"},
	}
	for name, in := range cases {
		if err := User(in); !repository.IsInvalidInput(err) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestGameAndCapacity(t *testing.T) {
	if err := Game(repository.CreateGameInput{Name: "chess", OwnerID: "u1", Capacity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range []int{0, -1} {
		if err := Capacity(c); !repository.IsInvalidInput(err) {
			t.Fatalf("capacity %d: expected invalid input, got %v", c, err)
		}
	}
	if err := Game(repository.CreateGameInput{Name: "  ", OwnerID: "u1", Capacity: 2}); !repository.IsInvalidInput(err) {
		t.Fatalf("blank name: expected invalid input, got %v", err)
	}
}

func TestMembers(t *testing.T) {
	if err := Members(nil); err != nil {
		t.Fatalf("empty list should be valid: %v", err)
	}
	if err := Members([]string{"u1", "u2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Members([]string{"u1", "u1"}); !repository.IsConflict(err) {
		t.Fatalf("expected conflict for repeated id, got %v", err)
	}
	if err := Members([]string{"u1", ""}); !repository.IsInvalidInput(err) {
		t.Fatalf("expected invalid input for blank id, got %v", err)
	}
}
