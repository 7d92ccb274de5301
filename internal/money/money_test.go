package money

import "testing"

func TestSubClampedFloorsAtZero(t *testing.T) {
	price := MoneyFromInt(1000)
	discount := MoneyFromInt(1500)
	if got := price.SubClamped(discount); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
	if got := price.SubClamped(MoneyFromInt(400)); !got.Equal(MoneyFromInt(600)) {
		t.Fatalf("expected 600, got %s", got)
	}
}

func TestPercentageApplyTo(t *testing.T) {
	p := PercentFromInt(10)
	if got := p.ApplyTo(MoneyFromInt(2000)); !got.Equal(MoneyFromInt(200)) {
		t.Fatalf("expected 200, got %s", got)
	}
}

func TestQuantitySubClamped(t *testing.T) {
	q := QtyFromInt(4)
	if got := q.SubClamped(QtyFromInt(10)); !got.IsZero() {
		t.Fatalf("expected zero, got %s", got)
	}
}

func TestMoneyMin(t *testing.T) {
	a := MoneyFromInt(700)
	b := MoneyFromInt(800)
	if got := b.Min(a); !got.Equal(a) {
		t.Fatalf("expected 700, got %s", got)
	}
}

func TestMoneyDivQty(t *testing.T) {
	amount := MoneyFromInt(500)
	if got := amount.DivQty(QtyFromInt(4)); !got.Equal(mustMoney(t, "125")) {
		t.Fatalf("expected 125, got %s", got)
	}
}

func mustMoney(t *testing.T, v string) Money {
	t.Helper()
	m, err := MoneyFromString(v)
	if err != nil {
		t.Fatalf("parse money: %v", err)
	}
	return m
}
