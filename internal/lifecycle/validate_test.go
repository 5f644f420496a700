package lifecycle

import "testing"

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  qw3rt "); got != "QW3RT" {
		t.Fatalf("NormalizeCode = %q", got)
	}
}

func TestValidCode(t *testing.T) {
	valid := []string{"QW3RT", "AAAAA", "12345", "A1B2C"}
	for _, c := range valid {
		if !ValidCode(c) {
			t.Fatalf("ValidCode(%q) = false, want true", c)
		}
	}
	invalid := []string{"", "QW3R", "QW3RTY", "qw3rt", "QW3R!", "QW 3R", "ÅÄÖ12"}
	for _, c := range invalid {
		if ValidCode(c) {
			t.Fatalf("ValidCode(%q) = true, want false", c)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@sub.domain.org", "x+tag@y.io"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Fatalf("ValidEmail(%q) = false, want true", e)
		}
	}
	invalid := []string{"not-an-email", "a@b", "@b.co", "a@.co", "a b@c.co", "a@b .co"}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Fatalf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestClaimInputValidate(t *testing.T) {
	base := ClaimInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.com",
		TOSAccepted: true,
	}
	if err := base.validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ClaimInput)
		field  string
	}{
		{"tos not accepted", func(in *ClaimInput) { in.TOSAccepted = false }, "tos_accepted"},
		{"missing first name", func(in *ClaimInput) { in.FirstName = "   " }, "first_name"},
		{"missing last name", func(in *ClaimInput) { in.LastName = "" }, "last_name"},
		{"missing email", func(in *ClaimInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *ClaimInput) { in.Email = "not-an-email" }, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			err := in.validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestClaimInputProfileTrimsFields(t *testing.T) {
	in := ClaimInput{FirstName: "  Ada ", LastName: " Lovelace ", Email: " ada@example.com "}
	p := in.profile()
	if p.FirstName != "Ada" || p.LastName != "Lovelace" || p.Email != "ada@example.com" {
		t.Fatalf("profile should trim whitespace: %+v", p)
	}
}
