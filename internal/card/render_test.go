package card

import (
	"strings"
	"testing"

	"cardpark/internal/domain"
)

func TestRenderOccupiedCard(t *testing.T) {
	p := &domain.Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Title:     "Engineer",
		Company:   "Analytical Engines",
		Location:  "London",
	}
	out := Render("QW3RT", p, false)
	for _, want := range []string{"Ada Lovelace", "Engineer @ Analytical Engines", "London", "ada@example.com", "QW3RT"} {
		if !strings.Contains(out, want) {
			t.Fatalf("card missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "★") {
		t.Fatal("unstarred card should not show a star")
	}
}

func TestRenderStarredCard(t *testing.T) {
	p := &domain.Profile{FirstName: "Ada", Email: "ada@example.com"}
	out := Render("QW3RT", p, true)
	if !strings.Contains(out, "★") {
		t.Fatalf("starred card should show a star:\n%s", out)
	}
}

func TestRenderVacantCard(t *testing.T) {
	out := Render("QW3RT", nil, false)
	if !strings.Contains(out, "QW3RT") || !strings.Contains(out, "vacant") {
		t.Fatalf("vacant card = %s", out)
	}
}
