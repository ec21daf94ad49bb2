package sui

import "testing"

func TestWithArbFoundTimeStaysActiveBeforeDeadline(t *testing.T) {
	src := NewShioSource(Digest{0xaa}, 1_000, 1_100)
	found := src.WithArbFoundTime(1_050)

	if found.Kind != SourceShio {
		t.Fatalf("expected Kind to stay SourceShio, got %v", found.Kind)
	}
	if found.ArbFoundMs != 1_050 {
		t.Fatalf("expected ArbFoundMs 1050, got %d", found.ArbFoundMs)
	}
	if !found.IsShio() {
		t.Fatal("expected IsShio true before deadline")
	}
}

func TestWithArbFoundTimeTransitionsToDeadlineMissedAtOrPastDeadline(t *testing.T) {
	src := NewShioSource(Digest{0xbb}, 1_000, 1_100)

	atDeadline := src.WithArbFoundTime(1_100)
	if atDeadline.Kind != SourceShioDeadlineMissed {
		t.Fatalf("expected ShioDeadlineMissed at the deadline itself, got %v", atDeadline.Kind)
	}
	if atDeadline.IsShio() {
		t.Fatal("a deadline-missed source must not report IsShio")
	}
	if _, ok := atDeadline.Deadline(); ok {
		t.Fatal("a deadline-missed source must not report HasDeadline/Deadline")
	}

	pastDeadline := src.WithArbFoundTime(5_000)
	if pastDeadline.Kind != SourceShioDeadlineMissed {
		t.Fatalf("expected ShioDeadlineMissed past the deadline, got %v", pastDeadline.Kind)
	}
	if pastDeadline.ArbFoundMs != 5_000 {
		t.Fatalf("expected ArbFoundMs preserved as 5000, got %d", pastDeadline.ArbFoundMs)
	}
}

func TestWithArbFoundTimeIsNoopForNonShioSources(t *testing.T) {
	pub := PublicSource()
	if got := pub.WithArbFoundTime(999); got != pub {
		t.Fatalf("expected public source unchanged, got %+v", got)
	}

	priv := PrivateSource()
	if got := priv.WithArbFoundTime(999); got != priv {
		t.Fatalf("expected private source unchanged, got %+v", got)
	}
}

func TestWithBidAmountOnlyAppliesToShio(t *testing.T) {
	shio := NewShioSource(Digest{0xcc}, 0, 1_000)
	bid := shio.WithBidAmount(42)
	if bid.Bid() != 42 {
		t.Fatalf("expected bid 42, got %d", bid.Bid())
	}

	pub := PublicSource()
	if got := pub.WithBidAmount(42); got.Bid() != 0 {
		t.Fatalf("expected public source bid to stay 0, got %d", got.Bid())
	}
}

func TestHasDeadlineOnlyTrueForActiveShio(t *testing.T) {
	if PublicSource().HasDeadline() {
		t.Fatal("public source must not report a deadline")
	}
	if PrivateSource().HasDeadline() {
		t.Fatal("private source must not report a deadline")
	}
	shio := NewShioSource(Digest{0xdd}, 0, 1_000)
	if !shio.HasDeadline() {
		t.Fatal("an active Shio source must report a deadline")
	}
	deadline, ok := shio.Deadline()
	if !ok || deadline != 1_000 {
		t.Fatalf("expected deadline (1000, true), got (%d, %v)", deadline, ok)
	}
}
